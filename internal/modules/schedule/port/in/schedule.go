package in

import (
	"context"

	"jarvis/internal/modules/schedule/dto"
)

type Usecase interface {
	SuggestSchedule(ctx context.Context, input dto.SuggestInput) (dto.ScheduleOutput, error)
	SuggestWeek(ctx context.Context, input dto.WeekInput) ([]dto.ScheduleOutput, error)
	GetSchedule(ctx context.Context, ref dto.ScheduleRef) (dto.ScheduleOutput, error)
	ListSchedules(ctx context.Context, limit int) ([]dto.ScheduleOutput, error)
	DeleteSchedule(ctx context.Context, scheduleID string) error
	ExportSchedule(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	PublishSchedule(ctx context.Context, ref dto.ScheduleRef) (dto.PublishOutput, error)
	ExportFormats() []string

	AddRecurring(ctx context.Context, input dto.RecurringInput) (dto.RecurringOutput, error)
	ListRecurring(ctx context.Context, includeInactive bool) ([]dto.RecurringOutput, error)
	RemoveRecurring(ctx context.Context, recurringID string) error
}

package in

import (
	"context"

	"jarvis/internal/modules/schedule/dto"
	schedulein "jarvis/internal/modules/schedule/port/in"
)

type CLIHandler struct {
	usecase schedulein.Usecase
}

func NewCLIHandler(usecase schedulein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Suggest(ctx context.Context, input dto.SuggestInput) (dto.ScheduleOutput, error) {
	return h.usecase.SuggestSchedule(ctx, input)
}

func (h CLIHandler) Week(ctx context.Context, input dto.WeekInput) ([]dto.ScheduleOutput, error) {
	return h.usecase.SuggestWeek(ctx, input)
}

func (h CLIHandler) Show(ctx context.Context, scheduleID, date string) (dto.ScheduleOutput, error) {
	return h.usecase.GetSchedule(ctx, dto.ScheduleRef{ID: scheduleID, Date: date})
}

func (h CLIHandler) List(ctx context.Context, limit int) ([]dto.ScheduleOutput, error) {
	return h.usecase.ListSchedules(ctx, limit)
}

func (h CLIHandler) Delete(ctx context.Context, scheduleID string) error {
	return h.usecase.DeleteSchedule(ctx, scheduleID)
}

func (h CLIHandler) Export(ctx context.Context, scheduleID, date, format string) (dto.ExportOutput, error) {
	return h.usecase.ExportSchedule(ctx, dto.ExportInput{
		Ref:    dto.ScheduleRef{ID: scheduleID, Date: date},
		Format: format,
	})
}

func (h CLIHandler) Publish(ctx context.Context, scheduleID, date string) (dto.PublishOutput, error) {
	return h.usecase.PublishSchedule(ctx, dto.ScheduleRef{ID: scheduleID, Date: date})
}

func (h CLIHandler) Formats() []string {
	return h.usecase.ExportFormats()
}

func (h CLIHandler) AddRecurring(ctx context.Context, input dto.RecurringInput) (dto.RecurringOutput, error) {
	return h.usecase.AddRecurring(ctx, input)
}

func (h CLIHandler) ListRecurring(ctx context.Context, all bool) ([]dto.RecurringOutput, error) {
	return h.usecase.ListRecurring(ctx, all)
}

func (h CLIHandler) RemoveRecurring(ctx context.Context, recurringID string) error {
	return h.usecase.RemoveRecurring(ctx, recurringID)
}

package usecase

import (
	"context"
	"fmt"

	"jarvis/internal/modules/schedule/domain"
	"jarvis/internal/modules/schedule/dto"
	schedulein "jarvis/internal/modules/schedule/port/in"
	"jarvis/internal/modules/schedule/service"
	apperrors "jarvis/internal/platform/errors"
)

type Interactor struct {
	svc *service.ScheduleService
}

func NewInteractor(svc *service.ScheduleService) schedulein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) SuggestSchedule(ctx context.Context, input dto.SuggestInput) (dto.ScheduleOutput, error) {
	schedule, err := i.svc.SuggestSchedule(ctx, input.Date, input.Tasks, input.IncludePending, input.Offline)
	if err != nil {
		return dto.ScheduleOutput{}, err
	}
	return toScheduleOutput(schedule), nil
}

func (i *Interactor) SuggestWeek(ctx context.Context, input dto.WeekInput) ([]dto.ScheduleOutput, error) {
	schedules, err := i.svc.SuggestWeek(ctx, input.Start, input.Days, input.Tasks, input.IncludePending, input.Offline)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ScheduleOutput, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, toScheduleOutput(s))
	}
	return out, nil
}

func (i *Interactor) GetSchedule(ctx context.Context, ref dto.ScheduleRef) (dto.ScheduleOutput, error) {
	schedule, err := i.svc.Find(ctx, ref.ID, ref.Date)
	if err != nil {
		return dto.ScheduleOutput{}, err
	}
	return toScheduleOutput(schedule), nil
}

func (i *Interactor) ListSchedules(ctx context.Context, limit int) ([]dto.ScheduleOutput, error) {
	schedules, err := i.svc.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ScheduleOutput, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, toScheduleOutput(s))
	}
	return out, nil
}

func (i *Interactor) DeleteSchedule(ctx context.Context, scheduleID string) error {
	return i.svc.Delete(ctx, scheduleID)
}

func (i *Interactor) ExportSchedule(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	schedule, err := i.svc.Find(ctx, input.Ref.ID, input.Ref.Date)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	path, n, err := i.svc.Export(ctx, schedule, input.Format)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{ScheduleID: schedule.ID, Format: input.Format, Path: path, Bytes: n}, nil
}

func (i *Interactor) PublishSchedule(ctx context.Context, ref dto.ScheduleRef) (dto.PublishOutput, error) {
	schedule, err := i.svc.Find(ctx, ref.ID, ref.Date)
	if err != nil {
		return dto.PublishOutput{}, err
	}
	calendar, n, err := i.svc.Publish(ctx, schedule)
	if err != nil {
		return dto.PublishOutput{}, err
	}
	return dto.PublishOutput{ScheduleID: schedule.ID, Calendar: calendar, Events: n}, nil
}

func (i *Interactor) ExportFormats() []string {
	return i.svc.Formats()
}

func (i *Interactor) AddRecurring(ctx context.Context, input dto.RecurringInput) (dto.RecurringOutput, error) {
	days, err := domain.ParseDays(input.Days)
	if err != nil {
		return dto.RecurringOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	freq := domain.Frequency(input.Frequency)
	if freq == "" {
		switch {
		case input.CronExpr != "":
			freq = domain.FrequencyCron
		case len(days) > 0:
			freq = domain.FrequencyDays
		default:
			freq = domain.FrequencyDaily
		}
	}
	task, err := i.svc.AddRecurring(ctx, domain.RecurringTask{
		Name:            input.Name,
		DurationMinutes: input.DurationMinutes,
		PreferredTime:   input.PreferredTime,
		Frequency:       freq,
		Days:            days,
		CronExpr:        input.CronExpr,
	})
	if err != nil {
		return dto.RecurringOutput{}, err
	}
	return toRecurringOutput(task), nil
}

func (i *Interactor) ListRecurring(ctx context.Context, includeInactive bool) ([]dto.RecurringOutput, error) {
	tasks, err := i.svc.ListRecurring(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecurringOutput, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toRecurringOutput(t))
	}
	return out, nil
}

func (i *Interactor) RemoveRecurring(ctx context.Context, recurringID string) error {
	return i.svc.RemoveRecurring(ctx, recurringID)
}

func toScheduleOutput(s domain.Schedule) dto.ScheduleOutput {
	entries := make([]dto.EntryOutput, 0, len(s.Entries))
	for _, e := range s.Entries {
		entries = append(entries, dto.EntryOutput{
			Start:     e.Start,
			End:       e.End,
			Task:      e.Task,
			Reasoning: e.Reasoning,
			Energy:    e.Energy,
		})
	}
	return dto.ScheduleOutput{
		ID:        s.ID,
		Date:      s.Date,
		Entries:   entries,
		Tips:      s.Tips,
		RawText:   s.RawText,
		Source:    s.Source,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}

func toRecurringOutput(r domain.RecurringTask) dto.RecurringOutput {
	return dto.RecurringOutput{
		ID:              r.ID,
		Name:            r.Name,
		DurationMinutes: r.DurationMinutes,
		PreferredTime:   r.PreferredTime,
		Frequency:       string(r.Frequency),
		Days:            domain.FormatDays(r.Days),
		CronExpr:        r.CronExpr,
		Active:          r.Active,
		CreatedAt:       r.CreatedAt,
	}
}

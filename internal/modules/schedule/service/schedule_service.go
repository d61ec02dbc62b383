package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"jarvis/internal/modules/schedule/domain"
	scheduleout "jarvis/internal/modules/schedule/port/out"
	"jarvis/internal/platform/clock"
	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/id"
	"jarvis/internal/platform/slug"
	"jarvis/internal/platform/tx"
)

const (
	DefaultRecentLimit      = 10
	pendingTaskLimit        = 20
	contextObservationLimit = 10
)

type ScheduleService struct {
	clock     clock.Clock
	idGen     id.Generator
	schedules scheduleout.ScheduleStore
	recurring scheduleout.RecurringStore
	completer scheduleout.Completer
	prefs     scheduleout.PreferenceSource
	tasks     scheduleout.TaskSource
	exporters map[string]scheduleout.Exporter
	artifacts scheduleout.ArtifactStore
	publisher scheduleout.CalendarPublisher
	tx        tx.Manager
	logger    *slog.Logger
}

// NewScheduleService wires the scheduler. publisher may be nil when no
// calendar is configured.
func NewScheduleService(
	clock clock.Clock,
	idGen id.Generator,
	schedules scheduleout.ScheduleStore,
	recurring scheduleout.RecurringStore,
	completer scheduleout.Completer,
	prefs scheduleout.PreferenceSource,
	tasks scheduleout.TaskSource,
	exporters []scheduleout.Exporter,
	artifacts scheduleout.ArtifactStore,
	publisher scheduleout.CalendarPublisher,
	txm tx.Manager,
	logger *slog.Logger,
) *ScheduleService {
	byFormat := make(map[string]scheduleout.Exporter, len(exporters))
	for _, e := range exporters {
		byFormat[e.Format()] = e
	}
	return &ScheduleService{
		clock:     clock,
		idGen:     idGen,
		schedules: schedules,
		recurring: recurring,
		completer: completer,
		prefs:     prefs,
		tasks:     tasks,
		exporters: byFormat,
		artifacts: artifacts,
		publisher: publisher,
		tx:        txm,
		logger:    logger,
	}
}

// SuggestSchedule plans date from the given task descriptions, optionally
// joined by stored pending tasks, plus any recurring task due that day. The
// new schedule replaces the active one for date; older ones stay on record.
func (s *ScheduleService) SuggestSchedule(ctx context.Context, date string, descriptions []string, includePending, offline bool) (domain.Schedule, error) {
	if strings.TrimSpace(date) == "" {
		date = clock.Today(s.clock)
	}
	day, err := domain.ParseDate(date)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	items, err := s.collectItems(ctx, descriptions, includePending)
	if err != nil {
		return domain.Schedule{}, err
	}
	schedule, err := s.build(ctx, day, items, offline)
	if err != nil {
		return domain.Schedule{}, err
	}
	if err := s.save(ctx, schedule); err != nil {
		return domain.Schedule{}, err
	}
	s.logger.Info("schedule created", "schedule_id", schedule.ID, "date", schedule.Date,
		"inputs", len(items), "entries", len(schedule.Entries), "source", schedule.Source)
	return schedule, nil
}

// SuggestWeek plans days consecutive dates from start. Items are spread with
// domain.Spread and each day is then planned like SuggestSchedule; days left
// with nothing to do are skipped. Every day is planned before any is stored,
// so a failure on one day stores none.
func (s *ScheduleService) SuggestWeek(ctx context.Context, start string, days int, descriptions []string, includePending, offline bool) ([]domain.Schedule, error) {
	if strings.TrimSpace(start) == "" {
		start = clock.Today(s.clock)
	}
	first, err := domain.ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if days <= 0 {
		days = 7
	}
	if days > domain.MaxWeekDays {
		return nil, fmt.Errorf("%w: at most %d days can be planned at once", apperrors.ErrInvalidInput, domain.MaxWeekDays)
	}
	items, err := s.collectItems(ctx, descriptions, includePending)
	if err != nil {
		return nil, err
	}

	var schedules []domain.Schedule
	for i, dayItems := range domain.Spread(items, first, days) {
		day := first.AddDate(0, 0, i)
		due, err := s.dueRecurring(ctx, day)
		if err != nil {
			return nil, err
		}
		if len(dayItems) == 0 && len(due) == 0 {
			continue
		}
		schedule, err := s.build(ctx, day, dayItems, offline)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", day.Format(domain.DateLayout), err)
		}
		schedules = append(schedules, schedule)
	}
	if err := s.save(ctx, schedules...); err != nil {
		return nil, err
	}
	s.logger.Info("week planned", "start", first.Format(domain.DateLayout), "days", days,
		"inputs", len(items), "schedules", len(schedules))
	return schedules, nil
}

func (s *ScheduleService) collectItems(ctx context.Context, descriptions []string, includePending bool) ([]domain.Item, error) {
	items := make([]domain.Item, 0, len(descriptions))
	for _, d := range descriptions {
		if d = strings.TrimSpace(d); d != "" {
			items = append(items, itemFor(d))
		}
	}
	if includePending {
		pending, err := s.tasks.PendingItems(ctx, pendingTaskLimit)
		if err != nil {
			return nil, fmt.Errorf("load pending tasks: %w", err)
		}
		for _, it := range pending {
			if fixed, ok := domain.ExtractFixedTime(it.Description); ok && it.FixedStart < 0 {
				it.FixedStart = fixed
			}
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one task is required", apperrors.ErrInvalidInput)
	}
	return items, nil
}

// build plans one day from items plus the recurring tasks due on it.
func (s *ScheduleService) build(ctx context.Context, day time.Time, items []domain.Item, offline bool) (domain.Schedule, error) {
	date := day.Format(domain.DateLayout)
	due, err := s.dueRecurring(ctx, day)
	if err != nil {
		return domain.Schedule{}, err
	}
	items = append(items[:len(items):len(items)], due...)

	schedule := domain.Schedule{
		ID:        s.idGen.New(),
		Date:      date,
		Active:    true,
		CreatedAt: s.clock.Now(),
	}
	if offline {
		schedule.Entries = domain.Draft(items)
		schedule.Source = domain.SourceDraft
	} else {
		entries, tips, raw, err := s.plan(ctx, date, items)
		if err != nil {
			return domain.Schedule{}, err
		}
		schedule.Entries, schedule.Tips, schedule.RawText = entries, tips, raw
		schedule.Source = domain.SourceModel
	}
	if err := schedule.Validate(); err != nil {
		return domain.Schedule{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return schedule, nil
}

// save makes each schedule the active one for its date in one transaction.
func (s *ScheduleService) save(ctx context.Context, schedules ...domain.Schedule) error {
	return s.tx.Within(ctx, func(ctx context.Context) error {
		for _, schedule := range schedules {
			if err := s.schedules.Supersede(ctx, schedule.Date); err != nil {
				return err
			}
			if err := s.schedules.Insert(ctx, schedule); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ScheduleService) plan(ctx context.Context, date string, items []domain.Item) ([]domain.Entry, []string, string, error) {
	prefs, err := s.prefs.Preferences(ctx)
	if err != nil {
		return nil, nil, "", fmt.Errorf("load preferences: %w", err)
	}
	observations, err := s.prefs.RecentObservations(ctx, contextObservationLimit)
	if err != nil {
		return nil, nil, "", fmt.Errorf("load observations: %w", err)
	}
	system, prompt := domain.SchedulePrompt(date, items, prefs, observations)
	reply, err := s.completer.Complete(ctx, system, prompt)
	if err != nil {
		return nil, nil, "", err
	}
	inputs := make([]string, 0, len(items))
	for _, it := range items {
		inputs = append(inputs, it.Description)
	}
	entries, tips, err := domain.ParseSchedule(reply, inputs)
	if err != nil {
		s.logger.Warn("unparseable schedule", "date", date, "err", err)
		return nil, nil, "", err
	}
	if len(entries) < len(inputs) {
		s.logger.Debug("model merged or dropped tasks", "date", date, "inputs", len(inputs), "entries", len(entries))
	}
	return entries, tips, reply, nil
}

func (s *ScheduleService) dueRecurring(ctx context.Context, day time.Time) ([]domain.Item, error) {
	all, err := s.recurring.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("load recurring tasks: %w", err)
	}
	var items []domain.Item
	for _, r := range all {
		if r.AppliesOn(day) {
			items = append(items, r.Item())
		}
	}
	return items, nil
}

func itemFor(description string) domain.Item {
	it := domain.Item{Description: description, FixedStart: -1}
	if fixed, ok := domain.ExtractFixedTime(description); ok {
		it.FixedStart = fixed
	}
	return it
}

// Find resolves a schedule by id, or the active schedule for date.
func (s *ScheduleService) Find(ctx context.Context, scheduleID, date string) (domain.Schedule, error) {
	if scheduleID != "" {
		return s.schedules.FindByID(ctx, scheduleID)
	}
	if strings.TrimSpace(date) == "" {
		date = clock.Today(s.clock)
	}
	if _, err := domain.ParseDate(date); err != nil {
		return domain.Schedule{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return s.schedules.Active(ctx, date)
}

func (s *ScheduleService) Recent(ctx context.Context, limit int) ([]domain.Schedule, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.schedules.Recent(ctx, limit)
}

func (s *ScheduleService) Delete(ctx context.Context, scheduleID string) error {
	return s.tx.Within(ctx, func(ctx context.Context) error {
		return s.schedules.Delete(ctx, scheduleID)
	})
}

func (s *ScheduleService) Formats() []string {
	formats := make([]string, 0, len(s.exporters))
	for f := range s.exporters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Export renders a schedule and writes it as schedule-<date>.<ext>.
func (s *ScheduleService) Export(ctx context.Context, schedule domain.Schedule, format string) (string, int, error) {
	exporter, ok := s.exporters[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return "", 0, fmt.Errorf("%w: unknown export format %q (have %s)", apperrors.ErrInvalidInput, format, strings.Join(s.Formats(), ", "))
	}
	data, err := exporter.Export(schedule)
	if err != nil {
		return "", 0, fmt.Errorf("export %s: %w", exporter.Format(), err)
	}
	path, err := s.artifacts.Write(ctx, slug.Make("schedule", schedule.Date)+exporter.Extension(), data)
	if err != nil {
		return "", 0, err
	}
	s.logger.Info("schedule exported", "schedule_id", schedule.ID, "format", exporter.Format(), "path", path)
	return path, len(data), nil
}

func (s *ScheduleService) Publish(ctx context.Context, schedule domain.Schedule) (string, int, error) {
	if s.publisher == nil {
		return "", 0, apperrors.ErrCalendarUnavailable
	}
	n, err := s.publisher.Publish(ctx, schedule)
	if err != nil {
		return "", 0, err
	}
	s.logger.Info("schedule published", "schedule_id", schedule.ID, "calendar", s.publisher.Calendar(), "events", n)
	return s.publisher.Calendar(), n, nil
}

func (s *ScheduleService) AddRecurring(ctx context.Context, task domain.RecurringTask) (domain.RecurringTask, error) {
	task.ID = s.idGen.New()
	task.Name = strings.TrimSpace(task.Name)
	task.Active = true
	task.CreatedAt = s.clock.Now()
	if task.PreferredTime != "" {
		if m, ok := domain.ParseClock(task.PreferredTime); ok {
			task.PreferredTime = domain.FormatClock(m)
		}
	}
	if err := task.Validate(); err != nil {
		return domain.RecurringTask{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := s.recurring.Save(ctx, task); err != nil {
		return domain.RecurringTask{}, err
	}
	return task, nil
}

func (s *ScheduleService) ListRecurring(ctx context.Context, includeInactive bool) ([]domain.RecurringTask, error) {
	return s.recurring.List(ctx, includeInactive)
}

func (s *ScheduleService) RemoveRecurring(ctx context.Context, id string) error {
	return s.recurring.Deactivate(ctx, id)
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"jarvis/internal/modules/task/domain"
	taskout "jarvis/internal/modules/task/port/out"
	"jarvis/internal/platform/clock"
	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/id"
	"jarvis/internal/platform/tx"
)

const (
	DefaultRecentLimit      = 10
	contextTaskLimit        = 5
	contextObservationLimit = 10
	productivityTaskLimit   = 1000

	lastCompletionHourKey = "last_completion_hour"
)

type TaskService struct {
	clock     clock.Clock
	idGen     id.Generator
	tasks     taskout.TaskStore
	analyses  taskout.AnalysisStore
	completer taskout.Completer
	prefs     taskout.PreferenceSource
	tx        tx.Manager
	logger    *slog.Logger
}

func NewTaskService(
	clock clock.Clock,
	idGen id.Generator,
	tasks taskout.TaskStore,
	analyses taskout.AnalysisStore,
	completer taskout.Completer,
	prefs taskout.PreferenceSource,
	txm tx.Manager,
	logger *slog.Logger,
) *TaskService {
	return &TaskService{
		clock:     clock,
		idGen:     idGen,
		tasks:     tasks,
		analyses:  analyses,
		completer: completer,
		prefs:     prefs,
		tx:        txm,
		logger:    logger,
	}
}

func (s *TaskService) newTask(description string, meta domain.Metadata) (domain.Task, error) {
	task := domain.Task{
		ID:          s.idGen.New(),
		Description: strings.TrimSpace(description),
		Metadata:    meta,
		Status:      domain.StatusPending,
		CreatedAt:   s.clock.Now(),
	}
	if err := task.Validate(); err != nil {
		return domain.Task{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return task, nil
}

// AddTask stores a task without asking the model.
func (s *TaskService) AddTask(ctx context.Context, description string, meta domain.Metadata) (domain.Task, error) {
	task, err := s.newTask(description, meta)
	if err != nil {
		return domain.Task{}, err
	}
	if err := s.tasks.Save(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// AnalyzeTask asks the model about a new task. The task and its analysis are
// written together only after a valid reply; any failure before that leaves
// the store untouched.
func (s *TaskService) AnalyzeTask(ctx context.Context, description string, meta domain.Metadata) (domain.Task, domain.Analysis, error) {
	task, err := s.newTask(description, meta)
	if err != nil {
		return domain.Task{}, domain.Analysis{}, err
	}
	analysis, err := s.analyze(ctx, task)
	if err != nil {
		return domain.Task{}, domain.Analysis{}, err
	}
	if task.Metadata.DurationMinutes == 0 {
		task.Metadata.DurationMinutes = analysis.DurationMinutes
	}
	err = s.tx.Within(ctx, func(ctx context.Context) error {
		if err := s.tasks.Save(ctx, task); err != nil {
			return err
		}
		return s.analyses.Save(ctx, analysis)
	})
	if err != nil {
		return domain.Task{}, domain.Analysis{}, err
	}
	s.logger.Info("task analyzed", "task_id", task.ID, "duration_minutes", analysis.DurationMinutes)
	return task, analysis, nil
}

// ReanalyzeTask appends a fresh analysis to an existing task.
func (s *TaskService) ReanalyzeTask(ctx context.Context, taskID string) (domain.Task, domain.Analysis, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return domain.Task{}, domain.Analysis{}, err
	}
	analysis, err := s.analyze(ctx, task)
	if err != nil {
		return domain.Task{}, domain.Analysis{}, err
	}
	if err := s.analyses.Save(ctx, analysis); err != nil {
		return domain.Task{}, domain.Analysis{}, err
	}
	return task, analysis, nil
}

func (s *TaskService) analyze(ctx context.Context, task domain.Task) (domain.Analysis, error) {
	prefs, err := s.prefs.Preferences(ctx)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("load preferences: %w", err)
	}
	recent, err := s.tasks.Recent(ctx, contextTaskLimit, "")
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("load recent tasks: %w", err)
	}
	observations, err := s.prefs.RecentObservations(ctx, contextObservationLimit)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("load observations: %w", err)
	}
	system, prompt := domain.AnalysisPrompt(task, prefs, recent, observations)
	reply, err := s.completer.Complete(ctx, system, prompt)
	if err != nil {
		return domain.Analysis{}, err
	}
	analysis, err := domain.ParseAnalysis(reply)
	if err != nil {
		s.logger.Warn("unparseable analysis", "task_id", task.ID, "err", err)
		return domain.Analysis{}, err
	}
	analysis.ID = s.idGen.New()
	analysis.TaskID = task.ID
	analysis.CreatedAt = s.clock.Now()
	return analysis, nil
}

func (s *TaskService) RecentTasks(ctx context.Context, limit int, status domain.Status) ([]domain.Task, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.tasks.Recent(ctx, limit, status)
}

func (s *TaskService) GetTask(ctx context.Context, taskID string) (domain.Task, []domain.Analysis, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return domain.Task{}, nil, err
	}
	analyses, err := s.analyses.ListByTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, nil, err
	}
	return task, analyses, nil
}

// CompleteTask closes a task and records how the real duration compared to
// the estimate. It returns the estimate and score; both are zero when no
// estimate was known.
func (s *TaskService) CompleteTask(ctx context.Context, taskID string, actualMinutes int) (domain.Task, int, int, error) {
	if actualMinutes < 0 || actualMinutes > domain.MaxMinutes {
		return domain.Task{}, 0, 0, fmt.Errorf("%w: actual minutes %d out of range", apperrors.ErrInvalidInput, actualMinutes)
	}
	task, analyses, err := s.GetTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, 0, 0, err
	}
	if task.Status == domain.StatusCompleted {
		return domain.Task{}, 0, 0, fmt.Errorf("%w: task %s already completed", apperrors.ErrInvalidInput, taskID)
	}
	now := s.clock.Now()
	if err := s.tasks.MarkCompleted(ctx, taskID, actualMinutes, now); err != nil {
		return domain.Task{}, 0, 0, err
	}
	task.Status = domain.StatusCompleted
	task.ActualMinutes = actualMinutes
	task.CompletedAt = now

	var latest *domain.Analysis
	if len(analyses) > 0 {
		latest = &analyses[0]
	}
	estimate := task.Estimate(latest)
	score := 0
	if estimate > 0 && actualMinutes > 0 {
		score = domain.AccuracyScore(estimate, actualMinutes)
		detail := fmt.Sprintf("task=%s estimate=%d actual=%d score=%d", task.ID, estimate, actualMinutes, score)
		if err := s.prefs.Observe(ctx, "estimate_accuracy", detail); err != nil {
			s.logger.Warn("record estimate accuracy", "task_id", task.ID, "err", err)
		}
	}
	hour := fmt.Sprintf("%02d", now.Local().Hour())
	detail := fmt.Sprintf("task=%s hour=%s energy=%s", task.ID, hour, task.Metadata.Energy)
	if err := s.prefs.Observe(ctx, "completion_time", detail); err != nil {
		s.logger.Warn("record completion time", "task_id", task.ID, "err", err)
	}
	if err := s.prefs.Set(ctx, lastCompletionHourKey, hour); err != nil {
		s.logger.Warn("record completion hour", "task_id", task.ID, "err", err)
	}
	return task, estimate, score, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	return s.tasks.Delete(ctx, taskID)
}

// Productivity summarizes completion rates and estimate accuracy over the
// most recent tasks.
func (s *TaskService) Productivity(ctx context.Context) (domain.ProductivityReport, error) {
	tasks, err := s.tasks.Recent(ctx, productivityTaskLimit, "")
	if err != nil {
		return domain.ProductivityReport{}, err
	}
	latest := make(map[string]domain.Analysis)
	for _, t := range tasks {
		if t.Status != domain.StatusCompleted || t.Metadata.DurationMinutes > 0 {
			continue
		}
		analyses, err := s.analyses.ListByTask(ctx, t.ID)
		if err != nil {
			return domain.ProductivityReport{}, err
		}
		if len(analyses) > 0 {
			latest[t.ID] = analyses[0]
		}
	}
	return domain.Summarize(tasks, latest), nil
}

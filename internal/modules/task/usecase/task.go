package usecase

import (
	"context"
	"fmt"

	"jarvis/internal/modules/task/domain"
	"jarvis/internal/modules/task/dto"
	taskin "jarvis/internal/modules/task/port/in"
	"jarvis/internal/modules/task/service"
	apperrors "jarvis/internal/platform/errors"
)

type Interactor struct {
	svc *service.TaskService
}

func NewInteractor(svc *service.TaskService) taskin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) AddTask(ctx context.Context, input dto.TaskInput) (dto.TaskOutput, error) {
	meta, err := toMetadata(input)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	task, err := i.svc.AddTask(ctx, input.Description, meta)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return toTaskOutput(task), nil
}

func (i *Interactor) AnalyzeTask(ctx context.Context, input dto.TaskInput) (dto.AnalyzeOutput, error) {
	meta, err := toMetadata(input)
	if err != nil {
		return dto.AnalyzeOutput{}, err
	}
	task, analysis, err := i.svc.AnalyzeTask(ctx, input.Description, meta)
	if err != nil {
		return dto.AnalyzeOutput{}, err
	}
	return dto.AnalyzeOutput{Task: toTaskOutput(task), Analysis: toAnalysisOutput(analysis)}, nil
}

func (i *Interactor) ReanalyzeTask(ctx context.Context, taskID string) (dto.AnalyzeOutput, error) {
	task, analysis, err := i.svc.ReanalyzeTask(ctx, taskID)
	if err != nil {
		return dto.AnalyzeOutput{}, err
	}
	return dto.AnalyzeOutput{Task: toTaskOutput(task), Analysis: toAnalysisOutput(analysis)}, nil
}

func (i *Interactor) RecentTasks(ctx context.Context, limit int) ([]dto.TaskOutput, error) {
	return i.list(ctx, limit, "")
}

func (i *Interactor) PendingTasks(ctx context.Context, limit int) ([]dto.TaskOutput, error) {
	return i.list(ctx, limit, domain.StatusPending)
}

func (i *Interactor) list(ctx context.Context, limit int, status domain.Status) ([]dto.TaskOutput, error) {
	tasks, err := i.svc.RecentTasks(ctx, limit, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaskOutput, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskOutput(t))
	}
	return out, nil
}

func (i *Interactor) GetTask(ctx context.Context, taskID string) (dto.TaskDetailOutput, error) {
	task, analyses, err := i.svc.GetTask(ctx, taskID)
	if err != nil {
		return dto.TaskDetailOutput{}, err
	}
	out := dto.TaskDetailOutput{Task: toTaskOutput(task), Analyses: make([]dto.AnalysisOutput, 0, len(analyses))}
	for _, a := range analyses {
		out.Analyses = append(out.Analyses, toAnalysisOutput(a))
	}
	return out, nil
}

func (i *Interactor) CompleteTask(ctx context.Context, input dto.CompleteInput) (dto.CompleteOutput, error) {
	task, estimate, score, err := i.svc.CompleteTask(ctx, input.TaskID, input.ActualMinutes)
	if err != nil {
		return dto.CompleteOutput{}, err
	}
	return dto.CompleteOutput{Task: toTaskOutput(task), Estimate: estimate, AccuracyScore: score}, nil
}

func (i *Interactor) DeleteTask(ctx context.Context, taskID string) error {
	return i.svc.DeleteTask(ctx, taskID)
}

func (i *Interactor) Productivity(ctx context.Context) (dto.ProductivityOutput, error) {
	report, err := i.svc.Productivity(ctx)
	if err != nil {
		return dto.ProductivityOutput{}, err
	}
	out := dto.ProductivityOutput{
		Pending:          report.Pending,
		Completed:        report.Completed,
		Categories:       make([]dto.CategoryOutput, 0, len(report.Categories)),
		EstimateSamples:  report.Estimates.Samples,
		MeanScore:        report.Estimates.MeanScore,
		MeanErrorMinutes: report.Estimates.MeanErrorMinutes,
		Underestimated:   report.Estimates.Under,
		Overestimated:    report.Estimates.Over,
	}
	for _, c := range report.Categories {
		out.Categories = append(out.Categories, dto.CategoryOutput{Category: c.Category, Total: c.Total, Completed: c.Completed, Rate: c.Rate()})
	}
	return out, nil
}

func toMetadata(input dto.TaskInput) (domain.Metadata, error) {
	priority, err := domain.ParseLevel(input.Priority)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("%w: priority: %v", apperrors.ErrInvalidInput, err)
	}
	energy, err := domain.ParseLevel(input.Energy)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("%w: energy: %v", apperrors.ErrInvalidInput, err)
	}
	return domain.Metadata{
		DurationMinutes: input.DurationMinutes,
		Priority:        priority,
		Energy:          energy,
		Category:        input.Category,
		Deadline:        input.Deadline,
		Extra:           input.Extra,
	}, nil
}

func toTaskOutput(t domain.Task) dto.TaskOutput {
	return dto.TaskOutput{
		ID:              t.ID,
		Description:     t.Description,
		DurationMinutes: t.Metadata.DurationMinutes,
		Priority:        string(t.Metadata.Priority),
		Energy:          string(t.Metadata.Energy),
		Category:        t.Metadata.Category,
		Deadline:        t.Metadata.Deadline,
		Extra:           t.Metadata.Extra,
		Status:          string(t.Status),
		ActualMinutes:   t.ActualMinutes,
		CreatedAt:       t.CreatedAt,
		CompletedAt:     t.CompletedAt,
	}
}

func toAnalysisOutput(a domain.Analysis) dto.AnalysisOutput {
	return dto.AnalysisOutput{
		ID:              a.ID,
		TaskID:          a.TaskID,
		Timing:          a.Timing,
		PrepSteps:       a.PrepSteps,
		SuccessCriteria: a.SuccessCriteria,
		DurationMinutes: a.DurationMinutes,
		RawText:         a.RawText,
		CreatedAt:       a.CreatedAt,
	}
}

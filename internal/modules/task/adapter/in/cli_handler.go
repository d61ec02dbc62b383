package in

import (
	"context"

	"jarvis/internal/modules/task/dto"
	taskin "jarvis/internal/modules/task/port/in"
)

type CLIHandler struct {
	usecase taskin.Usecase
}

func NewCLIHandler(usecase taskin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, input dto.TaskInput) (dto.TaskOutput, error) {
	return h.usecase.AddTask(ctx, input)
}

func (h CLIHandler) Analyze(ctx context.Context, input dto.TaskInput) (dto.AnalyzeOutput, error) {
	return h.usecase.AnalyzeTask(ctx, input)
}

func (h CLIHandler) Reanalyze(ctx context.Context, taskID string) (dto.AnalyzeOutput, error) {
	return h.usecase.ReanalyzeTask(ctx, taskID)
}

func (h CLIHandler) List(ctx context.Context, limit int, pendingOnly bool) ([]dto.TaskOutput, error) {
	if pendingOnly {
		return h.usecase.PendingTasks(ctx, limit)
	}
	return h.usecase.RecentTasks(ctx, limit)
}

func (h CLIHandler) Show(ctx context.Context, taskID string) (dto.TaskDetailOutput, error) {
	return h.usecase.GetTask(ctx, taskID)
}

func (h CLIHandler) Complete(ctx context.Context, taskID string, actualMinutes int) (dto.CompleteOutput, error) {
	return h.usecase.CompleteTask(ctx, dto.CompleteInput{TaskID: taskID, ActualMinutes: actualMinutes})
}

func (h CLIHandler) Delete(ctx context.Context, taskID string) error {
	return h.usecase.DeleteTask(ctx, taskID)
}

func (h CLIHandler) Stats(ctx context.Context) (dto.ProductivityOutput, error) {
	return h.usecase.Productivity(ctx)
}

package in

import (
	"context"

	"jarvis/internal/modules/task/dto"
)

type Usecase interface {
	AddTask(ctx context.Context, input dto.TaskInput) (dto.TaskOutput, error)
	AnalyzeTask(ctx context.Context, input dto.TaskInput) (dto.AnalyzeOutput, error)
	ReanalyzeTask(ctx context.Context, taskID string) (dto.AnalyzeOutput, error)
	RecentTasks(ctx context.Context, limit int) ([]dto.TaskOutput, error)
	PendingTasks(ctx context.Context, limit int) ([]dto.TaskOutput, error)
	GetTask(ctx context.Context, taskID string) (dto.TaskDetailOutput, error)
	CompleteTask(ctx context.Context, input dto.CompleteInput) (dto.CompleteOutput, error)
	DeleteTask(ctx context.Context, taskID string) error
	Productivity(ctx context.Context) (dto.ProductivityOutput, error)
}

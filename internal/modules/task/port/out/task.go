package out

import (
	"context"
	"time"

	"jarvis/internal/modules/task/domain"
)

type TaskStore interface {
	Save(ctx context.Context, task domain.Task) error
	FindByID(ctx context.Context, id string) (domain.Task, error)
	// Recent lists tasks newest first. An empty status matches every task.
	Recent(ctx context.Context, limit int, status domain.Status) ([]domain.Task, error)
	MarkCompleted(ctx context.Context, id string, actualMinutes int, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type AnalysisStore interface {
	Save(ctx context.Context, analysis domain.Analysis) error
	// ListByTask lists analyses newest first.
	ListByTask(ctx context.Context, taskID string) ([]domain.Analysis, error)
}

// Completer sends a prompt to the model and returns its text reply.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// PreferenceSource supplies learned context and records behavior.
type PreferenceSource interface {
	Preferences(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	Observe(ctx context.Context, kind, detail string) error
	// RecentObservations renders the newest observations as "kind: detail".
	RecentObservations(ctx context.Context, limit int) ([]string, error)
}

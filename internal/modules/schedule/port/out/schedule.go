package out

import (
	"context"

	"jarvis/internal/modules/schedule/domain"
)

type ScheduleStore interface {
	// Supersede deactivates every active schedule for date.
	Supersede(ctx context.Context, date string) error
	Insert(ctx context.Context, schedule domain.Schedule) error
	Active(ctx context.Context, date string) (domain.Schedule, error)
	FindByID(ctx context.Context, id string) (domain.Schedule, error)
	// ListByDate lists every schedule for date, newest first.
	ListByDate(ctx context.Context, date string) ([]domain.Schedule, error)
	Recent(ctx context.Context, limit int) ([]domain.Schedule, error)
	// Delete removes a schedule; deleting the active one promotes the newest
	// remaining schedule for its date.
	Delete(ctx context.Context, id string) error
}

type RecurringStore interface {
	Save(ctx context.Context, task domain.RecurringTask) error
	List(ctx context.Context, includeInactive bool) ([]domain.RecurringTask, error)
	Deactivate(ctx context.Context, id string) error
}

// Completer sends a prompt to the model and returns its text reply.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type PreferenceSource interface {
	Preferences(ctx context.Context) (map[string]string, error)
	// RecentObservations renders the newest observations as "kind: detail".
	RecentObservations(ctx context.Context, limit int) ([]string, error)
}

// TaskSource supplies stored pending tasks as schedule items.
type TaskSource interface {
	PendingItems(ctx context.Context, limit int) ([]domain.Item, error)
}

type Exporter interface {
	Format() string
	Extension() string
	Export(schedule domain.Schedule) ([]byte, error)
}

// ArtifactStore persists exported files and returns where they landed.
type ArtifactStore interface {
	Write(ctx context.Context, name string, data []byte) (string, error)
}

type CalendarPublisher interface {
	Calendar() string
	// Publish replaces the calendar's events for the schedule's date and
	// returns how many were created.
	Publish(ctx context.Context, schedule domain.Schedule) (int, error)
}

package out

import (
	"context"

	"jarvis/internal/modules/preference/domain"
)

type PreferenceStore interface {
	Find(ctx context.Context, key string) (domain.Preference, bool, error)
	Upsert(ctx context.Context, pref domain.Preference) error
	List(ctx context.Context) ([]domain.Preference, error)
}

type ObservationStore interface {
	Append(ctx context.Context, obs domain.Observation) error
	Recent(ctx context.Context, limit int) ([]domain.Observation, error)
}

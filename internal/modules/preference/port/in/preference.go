package in

import (
	"context"

	"jarvis/internal/modules/preference/dto"
)

type Usecase interface {
	// Get returns the current preferences as a key/value map.
	Get(ctx context.Context) (map[string]string, error)
	List(ctx context.Context) ([]dto.PreferenceOutput, error)
	Set(ctx context.Context, input dto.SetInput) (dto.PreferenceOutput, error)
	Observe(ctx context.Context, input dto.ObserveInput) (dto.ObservationOutput, error)
	Observations(ctx context.Context, limit int) ([]dto.ObservationOutput, error)
}

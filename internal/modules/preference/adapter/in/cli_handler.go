package in

import (
	"context"

	"jarvis/internal/modules/preference/dto"
	preferencein "jarvis/internal/modules/preference/port/in"
)

type CLIHandler struct {
	usecase preferencein.Usecase
}

func NewCLIHandler(usecase preferencein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.PreferenceOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Set(ctx context.Context, key, value string, confidence *float64) (dto.PreferenceOutput, error) {
	return h.usecase.Set(ctx, dto.SetInput{Key: key, Value: value, Confidence: confidence})
}

func (h CLIHandler) Observations(ctx context.Context, limit int) ([]dto.ObservationOutput, error) {
	return h.usecase.Observations(ctx, limit)
}

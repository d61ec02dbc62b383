package usecase

import (
	"context"

	"jarvis/internal/modules/preference/domain"
	"jarvis/internal/modules/preference/dto"
	preferencein "jarvis/internal/modules/preference/port/in"
	"jarvis/internal/modules/preference/service"
)

type Interactor struct {
	svc *service.PreferenceService
}

func NewInteractor(svc *service.PreferenceService) preferencein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Get(ctx context.Context) (map[string]string, error) {
	return i.svc.Map(ctx)
}

func (i *Interactor) List(ctx context.Context) ([]dto.PreferenceOutput, error) {
	prefs, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PreferenceOutput, 0, len(prefs))
	for _, p := range prefs {
		out = append(out, toPreferenceOutput(p))
	}
	return out, nil
}

func (i *Interactor) Set(ctx context.Context, input dto.SetInput) (dto.PreferenceOutput, error) {
	pref, err := i.svc.Set(ctx, input.Key, input.Value, input.Confidence)
	if err != nil {
		return dto.PreferenceOutput{}, err
	}
	return toPreferenceOutput(pref), nil
}

func (i *Interactor) Observe(ctx context.Context, input dto.ObserveInput) (dto.ObservationOutput, error) {
	obs, err := i.svc.Observe(ctx, input.Kind, input.Detail)
	if err != nil {
		return dto.ObservationOutput{}, err
	}
	return toObservationOutput(obs), nil
}

func (i *Interactor) Observations(ctx context.Context, limit int) ([]dto.ObservationOutput, error) {
	items, err := i.svc.Observations(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ObservationOutput, 0, len(items))
	for _, o := range items {
		out = append(out, toObservationOutput(o))
	}
	return out, nil
}

func toPreferenceOutput(p domain.Preference) dto.PreferenceOutput {
	return dto.PreferenceOutput{Key: p.Key, Value: p.Value, Confidence: p.Confidence, UpdatedAt: p.UpdatedAt}
}

func toObservationOutput(o domain.Observation) dto.ObservationOutput {
	return dto.ObservationOutput{ID: o.ID, Kind: o.Kind, Detail: o.Detail, CreatedAt: o.CreatedAt}
}

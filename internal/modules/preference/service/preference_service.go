package service

import (
	"context"
	"fmt"
	"strings"

	"jarvis/internal/modules/preference/domain"
	preferenceout "jarvis/internal/modules/preference/port/out"
	"jarvis/internal/platform/clock"
	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/id"
)

const defaultObservationLimit = 20

type PreferenceService struct {
	clock        clock.Clock
	idGen        id.Generator
	preferences  preferenceout.PreferenceStore
	observations preferenceout.ObservationStore
}

func NewPreferenceService(clock clock.Clock, idGen id.Generator, preferences preferenceout.PreferenceStore, observations preferenceout.ObservationStore) *PreferenceService {
	return &PreferenceService{clock: clock, idGen: idGen, preferences: preferences, observations: observations}
}

func (s *PreferenceService) Map(ctx context.Context) (map[string]string, error) {
	prefs, err := s.preferences.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(prefs))
	for _, p := range prefs {
		out[p.Key] = p.Value
	}
	return out, nil
}

func (s *PreferenceService) List(ctx context.Context) ([]domain.Preference, error) {
	return s.preferences.List(ctx)
}

// Set writes key=value. A nil confidence is derived from the previous value.
func (s *PreferenceService) Set(ctx context.Context, key, value string, confidence *float64) (domain.Preference, error) {
	key = domain.NormalizeKey(key)
	value = strings.TrimSpace(value)
	prev, found, err := s.preferences.Find(ctx, key)
	if err != nil {
		return domain.Preference{}, err
	}
	pref := domain.Preference{Key: key, Value: value, UpdatedAt: s.clock.Now()}
	if confidence != nil {
		pref.Confidence = *confidence
	} else {
		pref.Confidence = domain.Reinforce(prev, found, value)
	}
	if err := pref.Validate(); err != nil {
		return domain.Preference{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := s.preferences.Upsert(ctx, pref); err != nil {
		return domain.Preference{}, err
	}
	return pref, nil
}

func (s *PreferenceService) Observe(ctx context.Context, kind, detail string) (domain.Observation, error) {
	obs := domain.Observation{
		ID:        s.idGen.New(),
		Kind:      strings.TrimSpace(kind),
		Detail:    strings.TrimSpace(detail),
		CreatedAt: s.clock.Now(),
	}
	if err := obs.Validate(); err != nil {
		return domain.Observation{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := s.observations.Append(ctx, obs); err != nil {
		return domain.Observation{}, err
	}
	return obs, nil
}

func (s *PreferenceService) Observations(ctx context.Context, limit int) ([]domain.Observation, error) {
	if limit <= 0 {
		limit = defaultObservationLimit
	}
	return s.observations.Recent(ctx, limit)
}

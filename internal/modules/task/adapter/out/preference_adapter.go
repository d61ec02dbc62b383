package out

import (
	"context"

	preferencedto "jarvis/internal/modules/preference/dto"
	preferencein "jarvis/internal/modules/preference/port/in"
	taskout "jarvis/internal/modules/task/port/out"
)

type PreferenceAdapter struct {
	preferences preferencein.Usecase
}

func NewPreferenceAdapter(preferences preferencein.Usecase) taskout.PreferenceSource {
	return &PreferenceAdapter{preferences: preferences}
}

func (a *PreferenceAdapter) Preferences(ctx context.Context) (map[string]string, error) {
	return a.preferences.Get(ctx)
}

func (a *PreferenceAdapter) Observe(ctx context.Context, kind, detail string) error {
	_, err := a.preferences.Observe(ctx, preferencedto.ObserveInput{Kind: kind, Detail: detail})
	return err
}

func (a *PreferenceAdapter) Set(ctx context.Context, key, value string) error {
	_, err := a.preferences.Set(ctx, preferencedto.SetInput{Key: key, Value: value})
	return err
}

func (a *PreferenceAdapter) RecentObservations(ctx context.Context, limit int) ([]string, error) {
	observations, err := a.preferences.Observations(ctx, limit)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(observations))
	for _, o := range observations {
		lines = append(lines, o.Kind+": "+o.Detail)
	}
	return lines, nil
}

package out

import (
	"context"

	preferencein "jarvis/internal/modules/preference/port/in"
	scheduleout "jarvis/internal/modules/schedule/port/out"
)

type PreferenceAdapter struct {
	preferences preferencein.Usecase
}

func NewPreferenceAdapter(preferences preferencein.Usecase) scheduleout.PreferenceSource {
	return &PreferenceAdapter{preferences: preferences}
}

func (a *PreferenceAdapter) Preferences(ctx context.Context) (map[string]string, error) {
	return a.preferences.Get(ctx)
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

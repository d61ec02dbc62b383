package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultConfidence = 0.5
	reinforceStep     = 0.1
)

type Preference struct {
	Key        string
	Value      string
	Confidence float64
	UpdatedAt  time.Time
}

// Observation is an append-only behavioral record, e.g. how close an
// estimate was to the real duration.
type Observation struct {
	ID        string
	Kind      string
	Detail    string
	CreatedAt time.Time
}

func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.Join(strings.Fields(key), "_")
}

func (p Preference) Validate() error {
	if p.Key == "" {
		return fmt.Errorf("preference key is required")
	}
	if strings.TrimSpace(p.Value) == "" {
		return fmt.Errorf("preference %q needs a value", p.Key)
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("confidence %.2f out of range [0,1]", p.Confidence)
	}
	return nil
}

// Reinforce returns the confidence for writing value over prev. Repeating
// the same value raises confidence; a new value starts over.
func Reinforce(prev Preference, found bool, value string) float64 {
	if !found || prev.Value != value {
		return DefaultConfidence
	}
	return min(1, prev.Confidence+reinforceStep)
}

func (o Observation) Validate() error {
	if strings.TrimSpace(o.Kind) == "" {
		return fmt.Errorf("observation kind is required")
	}
	return nil
}

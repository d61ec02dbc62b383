package domain

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Level grades priority and energy.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

func ParseLevel(raw string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(raw))); l {
	case "", LevelLow, LevelMedium, LevelHigh:
		return l, nil
	default:
		return "", fmt.Errorf("unsupported level %q (low|medium|high)", raw)
	}
}

// Metadata is the optional, user-supplied context of a task. It is stored
// as JSON next to the description.
type Metadata struct {
	DurationMinutes int               `json:"duration_minutes,omitempty"`
	Priority        Level             `json:"priority,omitempty"`
	Energy          Level             `json:"energy,omitempty"`
	Category        string            `json:"category,omitempty"`
	Deadline        string            `json:"deadline,omitempty"`
	Extra           map[string]string `json:"extra,omitempty"`
}

type Task struct {
	ID            string
	Description   string
	Metadata      Metadata
	Status        Status
	ActualMinutes int
	CreatedAt     time.Time
	CompletedAt   time.Time
}

func (m Metadata) Validate() error {
	if m.DurationMinutes < 0 || m.DurationMinutes > MaxMinutes {
		return fmt.Errorf("duration %d minutes out of range", m.DurationMinutes)
	}
	if _, err := ParseLevel(string(m.Priority)); err != nil {
		return fmt.Errorf("priority: %w", err)
	}
	if _, err := ParseLevel(string(m.Energy)); err != nil {
		return fmt.Errorf("energy: %w", err)
	}
	return nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("description is required")
	}
	return t.Metadata.Validate()
}

// Estimate is the best known duration guess for the task, or zero.
func (t Task) Estimate(latest *Analysis) int {
	if t.Metadata.DurationMinutes > 0 {
		return t.Metadata.DurationMinutes
	}
	if latest != nil {
		return latest.DurationMinutes
	}
	return 0
}

// AccuracyScore grades an estimate from 1 to 10; every six minutes of error
// costs one point.
func AccuracyScore(estimate, actual int) int {
	diff := actual - estimate
	if diff < 0 {
		diff = -diff
	}
	return max(1, 10-diff/6)
}

package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/llmjson"
)

// MaxMinutes bounds any single duration to one day.
const MaxMinutes = 24 * 60

// Analysis is one structured model answer about a task. A task may collect
// several over time.
type Analysis struct {
	ID              string
	TaskID          string
	Timing          string
	PrepSteps       []string
	SuccessCriteria []string
	DurationMinutes int
	RawText         string
	CreatedAt       time.Time
}

type analysisReply struct {
	Timing          string             `json:"timing"`
	PrepSteps       llmjson.StringList `json:"prep_steps"`
	SuccessCriteria llmjson.StringList `json:"success_criteria"`
	DurationMinutes llmjson.Minutes    `json:"duration_minutes"`
}

// ParseAnalysis validates a model reply. Any missing field yields a
// *apperrors.ParseError carrying the raw text.
func ParseAnalysis(raw string) (Analysis, error) {
	var reply analysisReply
	if err := llmjson.Decode(raw, &reply); err != nil {
		return Analysis{}, apperrors.NewParseError("analysis", err.Error(), raw)
	}
	timing := strings.TrimSpace(reply.Timing)
	switch {
	case timing == "":
		return Analysis{}, apperrors.NewParseError("analysis", "missing timing", raw)
	case len(reply.PrepSteps) == 0:
		return Analysis{}, apperrors.NewParseError("analysis", "missing prep_steps", raw)
	case len(reply.SuccessCriteria) == 0:
		return Analysis{}, apperrors.NewParseError("analysis", "missing success_criteria", raw)
	case reply.DurationMinutes <= 0 || int(reply.DurationMinutes) > MaxMinutes:
		return Analysis{}, apperrors.NewParseError("analysis", fmt.Sprintf("duration_minutes %d out of range", reply.DurationMinutes), raw)
	}
	return Analysis{
		Timing:          timing,
		PrepSteps:       reply.PrepSteps,
		SuccessCriteria: reply.SuccessCriteria,
		DurationMinutes: int(reply.DurationMinutes),
		RawText:         raw,
	}, nil
}

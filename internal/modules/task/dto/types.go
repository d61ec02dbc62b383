package dto

import "time"

type TaskInput struct {
	Description     string
	DurationMinutes int
	Priority        string
	Energy          string
	Category        string
	Deadline        string
	Extra           map[string]string
}

type TaskOutput struct {
	ID              string
	Description     string
	DurationMinutes int
	Priority        string
	Energy          string
	Category        string
	Deadline        string
	Extra           map[string]string
	Status          string
	ActualMinutes   int
	CreatedAt       time.Time
	CompletedAt     time.Time
}

type AnalysisOutput struct {
	ID              string
	TaskID          string
	Timing          string
	PrepSteps       []string
	SuccessCriteria []string
	DurationMinutes int
	RawText         string
	CreatedAt       time.Time
}

type AnalyzeOutput struct {
	Task     TaskOutput
	Analysis AnalysisOutput
}

type TaskDetailOutput struct {
	Task     TaskOutput
	Analyses []AnalysisOutput
}

type CompleteInput struct {
	TaskID        string
	ActualMinutes int
}

type CompleteOutput struct {
	Task          TaskOutput
	Estimate      int
	AccuracyScore int
}

type CategoryOutput struct {
	Category  string
	Total     int
	Completed int
	Rate      float64
}

type ProductivityOutput struct {
	Pending          int
	Completed        int
	Categories       []CategoryOutput
	EstimateSamples  int
	MeanScore        float64
	MeanErrorMinutes float64
	Underestimated   int
	Overestimated    int
}

package dto

import "time"

type CompleteInput struct {
	Kind        string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature *float64
}

type AskInput struct {
	Question  string
	MaxTokens int
}

type CompleteOutput struct {
	Text         string
	Model        string
	StopReason   string
	InputTokens  int
	OutputTokens int
}

type PingOutput struct {
	Provider string
	Model    string
	Reply    string
	Latency  time.Duration
}

type InteractionOutput struct {
	ID           string
	Kind         string
	Provider     string
	Model        string
	Prompt       string
	Response     string
	InputTokens  int
	OutputTokens int
	LatencyMS    int64
	CreatedAt    time.Time
}

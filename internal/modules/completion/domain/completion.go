package domain

import (
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindAnalysis Kind = "analysis"
	KindSchedule Kind = "schedule"
	KindPing     Kind = "ping"
	KindChat     Kind = "chat"
)

// Request is one prompt sent to the model. Zero MaxTokens and nil Temperature
// fall back to the configured defaults.
type Request struct {
	Kind        Kind
	System      string
	Prompt      string
	MaxTokens   int
	Temperature *float64
}

type Response struct {
	Text         string
	Model        string
	StopReason   string
	InputTokens  int
	OutputTokens int
}

// Interaction is the logged record of a completed request.
type Interaction struct {
	ID           string
	Kind         Kind
	Provider     string
	Model        string
	Prompt       string
	Response     string
	InputTokens  int
	OutputTokens int
	Latency      time.Duration
	CreatedAt    time.Time
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("prompt is required")
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max tokens must not be negative")
	}
	if r.Temperature != nil && (*r.Temperature < 0 || *r.Temperature > 1) {
		return fmt.Errorf("temperature %.2f out of range [0,1]", *r.Temperature)
	}
	return nil
}

// ChatPrompt prefixes a question with earlier chat exchanges. history is
// newest first, as stores return it, and is replayed oldest first.
func ChatPrompt(history []Interaction, question string) string {
	if len(history) == 0 {
		return question
	}
	var b strings.Builder
	b.WriteString("Our recent conversation:\n")
	for i := len(history) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "User: %s\nJarvis: %s\n", history[i].Prompt, history[i].Response)
	}
	fmt.Fprintf(&b, "\nUser: %s", question)
	return b.String()
}

package out

import (
	"context"

	completiondto "jarvis/internal/modules/completion/dto"
	completionin "jarvis/internal/modules/completion/port/in"
	scheduleout "jarvis/internal/modules/schedule/port/out"
)

const scheduleMaxTokens = 2048

type CompletionAdapter struct {
	completion completionin.Usecase
}

func NewCompletionAdapter(completion completionin.Usecase) scheduleout.Completer {
	return &CompletionAdapter{completion: completion}
}

func (a *CompletionAdapter) Complete(ctx context.Context, system, prompt string) (string, error) {
	out, err := a.completion.Complete(ctx, completiondto.CompleteInput{
		Kind:      "schedule",
		System:    system,
		Prompt:    prompt,
		MaxTokens: scheduleMaxTokens,
	})
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

package out

import (
	"context"

	completiondto "jarvis/internal/modules/completion/dto"
	completionin "jarvis/internal/modules/completion/port/in"
	taskout "jarvis/internal/modules/task/port/out"
)

const analysisMaxTokens = 1024

type CompletionAdapter struct {
	completion completionin.Usecase
}

func NewCompletionAdapter(completion completionin.Usecase) taskout.Completer {
	return &CompletionAdapter{completion: completion}
}

func (a *CompletionAdapter) Complete(ctx context.Context, system, prompt string) (string, error) {
	out, err := a.completion.Complete(ctx, completiondto.CompleteInput{
		Kind:      "analysis",
		System:    system,
		Prompt:    prompt,
		MaxTokens: analysisMaxTokens,
	})
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

package in

import (
	"context"

	"jarvis/internal/modules/completion/dto"
	completionin "jarvis/internal/modules/completion/port/in"
)

type CLIHandler struct {
	usecase completionin.Usecase
}

func NewCLIHandler(usecase completionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Ping(ctx context.Context) (dto.PingOutput, error) {
	return h.usecase.Ping(ctx)
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]dto.InteractionOutput, error) {
	return h.usecase.History(ctx, limit)
}

func (h CLIHandler) Ask(ctx context.Context, prompt string, maxTokens int) (dto.CompleteOutput, error) {
	return h.usecase.Ask(ctx, dto.AskInput{Question: prompt, MaxTokens: maxTokens})
}

package usecase

import (
	"context"

	"jarvis/internal/modules/completion/domain"
	"jarvis/internal/modules/completion/dto"
	completionin "jarvis/internal/modules/completion/port/in"
	"jarvis/internal/modules/completion/service"
)

type Interactor struct {
	svc *service.CompletionService
}

func NewInteractor(svc *service.CompletionService) completionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Complete(ctx context.Context, input dto.CompleteInput) (dto.CompleteOutput, error) {
	resp, err := i.svc.Complete(ctx, domain.Request{
		Kind:        domain.Kind(input.Kind),
		System:      input.System,
		Prompt:      input.Prompt,
		MaxTokens:   input.MaxTokens,
		Temperature: input.Temperature,
	})
	if err != nil {
		return dto.CompleteOutput{}, err
	}
	return toCompleteOutput(resp), nil
}

func (i *Interactor) Ask(ctx context.Context, input dto.AskInput) (dto.CompleteOutput, error) {
	resp, err := i.svc.Ask(ctx, input.Question, input.MaxTokens)
	if err != nil {
		return dto.CompleteOutput{}, err
	}
	return toCompleteOutput(resp), nil
}

func toCompleteOutput(resp domain.Response) dto.CompleteOutput {
	return dto.CompleteOutput{
		Text:         resp.Text,
		Model:        resp.Model,
		StopReason:   resp.StopReason,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	}
}

func (i *Interactor) Ping(ctx context.Context) (dto.PingOutput, error) {
	resp, latency, err := i.svc.Ping(ctx)
	if err != nil {
		return dto.PingOutput{}, err
	}
	return dto.PingOutput{Provider: i.svc.ProviderName(), Model: resp.Model, Reply: resp.Text, Latency: latency}, nil
}

func (i *Interactor) History(ctx context.Context, limit int) ([]dto.InteractionOutput, error) {
	items, err := i.svc.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InteractionOutput, 0, len(items))
	for _, item := range items {
		out = append(out, dto.InteractionOutput{
			ID:           item.ID,
			Kind:         string(item.Kind),
			Provider:     item.Provider,
			Model:        item.Model,
			Prompt:       item.Prompt,
			Response:     item.Response,
			InputTokens:  item.InputTokens,
			OutputTokens: item.OutputTokens,
			LatencyMS:    item.Latency.Milliseconds(),
			CreatedAt:    item.CreatedAt,
		})
	}
	return out, nil
}

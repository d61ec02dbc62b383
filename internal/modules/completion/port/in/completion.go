package in

import (
	"context"

	"jarvis/internal/modules/completion/dto"
)

type Usecase interface {
	Complete(ctx context.Context, input dto.CompleteInput) (dto.CompleteOutput, error)
	// Ask sends a chat question with recent chat exchanges as context.
	Ask(ctx context.Context, input dto.AskInput) (dto.CompleteOutput, error)
	Ping(ctx context.Context) (dto.PingOutput, error)
	History(ctx context.Context, limit int) ([]dto.InteractionOutput, error)
}

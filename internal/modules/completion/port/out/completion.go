package out

import (
	"context"

	"jarvis/internal/modules/completion/domain"
)

// Provider sends one request to a model backend. Implementations must not
// retry and must wrap failures with apperrors.ErrModelRequest.
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, req domain.Request) (domain.Response, error)
}

type InteractionStore interface {
	Append(ctx context.Context, interaction domain.Interaction) error
	Recent(ctx context.Context, limit int) ([]domain.Interaction, error)
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"jarvis/internal/modules/completion/domain"
	completionout "jarvis/internal/modules/completion/port/out"
	"jarvis/internal/platform/clock"
	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/id"
)

const (
	defaultHistoryLimit = 20
	chatContextLimit    = 5
	chatScanLimit       = 50
	pingPrompt          = "Reply with the single word: pong"
)

type Defaults struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

type CompletionService struct {
	clock    clock.Clock
	idGen    id.Generator
	provider completionout.Provider
	store    completionout.InteractionStore
	defaults Defaults
	logger   *slog.Logger
}

func NewCompletionService(clock clock.Clock, idGen id.Generator, provider completionout.Provider, store completionout.InteractionStore, defaults Defaults, logger *slog.Logger) *CompletionService {
	return &CompletionService{clock: clock, idGen: idGen, provider: provider, store: store, defaults: defaults, logger: logger}
}

// Complete sends exactly one request to the provider. Failures are returned
// as-is; there is no retry.
func (s *CompletionService) Complete(ctx context.Context, req domain.Request) (domain.Response, error) {
	return s.complete(ctx, req, req.Prompt)
}

// Ask answers a free-form question with the last few chat exchanges as
// context. Only the question itself is recorded.
func (s *CompletionService) Ask(ctx context.Context, question string, maxTokens int) (domain.Response, error) {
	if strings.TrimSpace(question) == "" {
		return domain.Response{}, fmt.Errorf("%w: question is required", apperrors.ErrInvalidInput)
	}
	recent, err := s.store.Recent(ctx, chatScanLimit)
	if err != nil {
		return domain.Response{}, fmt.Errorf("load chat history: %w", err)
	}
	history := make([]domain.Interaction, 0, chatContextLimit)
	for _, item := range recent {
		if item.Kind == domain.KindChat && len(history) < chatContextLimit {
			history = append(history, item)
		}
	}
	req := domain.Request{Kind: domain.KindChat, Prompt: domain.ChatPrompt(history, question), MaxTokens: maxTokens}
	return s.complete(ctx, req, question)
}

// complete records the interaction under recorded, which may differ from the
// prompt actually sent.
func (s *CompletionService) complete(ctx context.Context, req domain.Request, recorded string) (domain.Response, error) {
	if err := req.Validate(); err != nil {
		return domain.Response{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = s.defaults.MaxTokens
	}
	if req.Temperature == nil {
		t := s.defaults.Temperature
		req.Temperature = &t
	}
	if s.defaults.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.defaults.Timeout)
		defer cancel()
	}

	started := s.clock.Now()
	resp, err := s.provider.Complete(ctx, req)
	latency := s.clock.Now().Sub(started)
	if err != nil {
		s.logger.Warn("completion failed", "provider", s.provider.Name(), "kind", req.Kind, "err", err)
		return domain.Response{}, err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return domain.Response{}, fmt.Errorf("%w: empty response from %s", apperrors.ErrModelRequest, s.provider.Name())
	}
	if resp.Model == "" {
		resp.Model = s.provider.Model()
	}
	s.logger.Debug("completion done",
		"provider", s.provider.Name(),
		"model", resp.Model,
		"kind", req.Kind,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"latency", latency,
	)

	interaction := domain.Interaction{
		ID:           s.idGen.New(),
		Kind:         req.Kind,
		Provider:     s.provider.Name(),
		Model:        resp.Model,
		Prompt:       recorded,
		Response:     resp.Text,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		Latency:      latency,
		CreatedAt:    s.clock.Now(),
	}
	// History is best effort; the caller still gets its answer.
	if err := s.store.Append(context.WithoutCancel(ctx), interaction); err != nil {
		s.logger.Warn("record interaction", "err", err)
	}
	return resp, nil
}

func (s *CompletionService) Ping(ctx context.Context) (domain.Response, time.Duration, error) {
	started := s.clock.Now()
	resp, err := s.Complete(ctx, domain.Request{Kind: domain.KindPing, Prompt: pingPrompt, MaxTokens: 16})
	if err != nil {
		return domain.Response{}, 0, err
	}
	return resp, s.clock.Now().Sub(started), nil
}

func (s *CompletionService) History(ctx context.Context, limit int) ([]domain.Interaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.store.Recent(ctx, limit)
}

func (s *CompletionService) ProviderName() string {
	return s.provider.Name()
}

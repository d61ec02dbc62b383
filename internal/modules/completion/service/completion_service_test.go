package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"jarvis/internal/modules/completion/domain"
	"jarvis/internal/modules/completion/service"
	"jarvis/internal/platform/clock"
	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/logging"
)

type fakeID struct{ n int }

func (f *fakeID) New() string {
	f.n++
	return fmt.Sprintf("int-%d", f.n)
}

type fakeProvider struct {
	reply    string
	err      error
	requests []domain.Request
	deadline bool
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model" }
func (f *fakeProvider) Complete(ctx context.Context, req domain.Request) (domain.Response, error) {
	f.requests = append(f.requests, req)
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return domain.Response{}, f.err
	}
	return domain.Response{Text: f.reply, InputTokens: 4, OutputTokens: 2}, nil
}

type memoryStore struct {
	items []domain.Interaction
	err   error
}

func (m *memoryStore) Append(_ context.Context, i domain.Interaction) error {
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, i)
	return nil
}

func (m *memoryStore) Recent(_ context.Context, limit int) ([]domain.Interaction, error) {
	if limit > len(m.items) {
		limit = len(m.items)
	}
	return m.items[:limit], nil
}

func newService(p *fakeProvider, s *memoryStore) *service.CompletionService {
	defaults := service.Defaults{MaxTokens: 1024, Temperature: 0.7, Timeout: 30 * time.Second}
	clk := clock.Fixed(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	return service.NewCompletionService(clk, &fakeID{}, p, s, defaults, logging.Discard())
}

func TestCompleteAppliesDefaultsAndRecordsInteraction(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{reply: "hello"}
	s := &memoryStore{}
	svc := newService(p, s)

	resp, err := svc.Complete(context.Background(), domain.Request{Kind: domain.KindAnalysis, Prompt: "hi"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.Text != "hello" || resp.Model != "fake-model" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(p.requests) != 1 {
		t.Fatalf("expected exactly one provider call, got %d", len(p.requests))
	}
	sent := p.requests[0]
	if sent.MaxTokens != 1024 || sent.Temperature == nil || *sent.Temperature != 0.7 {
		t.Fatalf("defaults not applied: %+v", sent)
	}
	if !p.deadline {
		t.Fatalf("expected a bounded request context")
	}
	if len(s.items) != 1 || s.items[0].Kind != domain.KindAnalysis || s.items[0].Provider != "fake" {
		t.Fatalf("unexpected interaction log: %+v", s.items)
	}
}

func TestCompleteKeepsExplicitOptions(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{reply: "ok"}
	svc := newService(p, &memoryStore{})
	temp := 0.1
	if _, err := svc.Complete(context.Background(), domain.Request{Prompt: "hi", MaxTokens: 200, Temperature: &temp}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if p.requests[0].MaxTokens != 200 || *p.requests[0].Temperature != 0.1 {
		t.Fatalf("explicit options overridden: %+v", p.requests[0])
	}
}

func TestCompleteSurfacesProviderFailureWithoutRetry(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{err: apperrors.ErrRateLimited}
	s := &memoryStore{}
	svc := newService(p, s)
	_, err := svc.Complete(context.Background(), domain.Request{Prompt: "hi"})
	if !errors.Is(err, apperrors.ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if len(p.requests) != 1 {
		t.Fatalf("expected no retries, got %d calls", len(p.requests))
	}
	if len(s.items) != 0 {
		t.Fatalf("failed calls must not be logged")
	}
}

func TestCompleteRejectsEmptyReplyAndPrompt(t *testing.T) {
	t.Parallel()
	svc := newService(&fakeProvider{reply: "  "}, &memoryStore{})
	if _, err := svc.Complete(context.Background(), domain.Request{Prompt: "hi"}); !errors.Is(err, apperrors.ErrModelRequest) {
		t.Fatalf("expected model request error, got %v", err)
	}
	if _, err := svc.Complete(context.Background(), domain.Request{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCompleteToleratesHistoryFailure(t *testing.T) {
	t.Parallel()
	svc := newService(&fakeProvider{reply: "ok"}, &memoryStore{err: errors.New("disk full")})
	if _, err := svc.Complete(context.Background(), domain.Request{Prompt: "hi"}); err != nil {
		t.Fatalf("history failure must not fail the call: %v", err)
	}
}

func TestPing(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{reply: "pong"}
	svc := newService(p, &memoryStore{})
	resp, _, err := svc.Ping(context.Background())
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if resp.Text != "pong" || p.requests[0].Kind != domain.KindPing {
		t.Fatalf("unexpected ping: %+v %+v", resp, p.requests[0])
	}
}

func TestAskReplaysRecentChatExchanges(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{reply: "Block 9-11 for it."}
	s := &memoryStore{}
	// newest first, as the store returns them
	for i := 7; i >= 1; i-- {
		s.items = append(s.items, domain.Interaction{Kind: domain.KindChat, Prompt: fmt.Sprintf("question %d", i), Response: fmt.Sprintf("answer %d", i)})
		if i == 4 {
			s.items = append(s.items, domain.Interaction{Kind: domain.KindAnalysis, Prompt: "analysis prompt", Response: "{}"})
		}
	}
	svc := newService(p, s)

	if _, err := svc.Ask(context.Background(), "When should I write the report?", 0); err != nil {
		t.Fatalf("ask: %v", err)
	}
	sent := p.requests[0]
	if sent.Kind != domain.KindChat {
		t.Fatalf("unexpected kind %q", sent.Kind)
	}
	for _, want := range []string{"User: question 3\nJarvis: answer 3", "User: question 7\nJarvis: answer 7", "User: When should I write the report?"} {
		if !strings.Contains(sent.Prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, sent.Prompt)
		}
	}
	for _, absent := range []string{"question 2", "analysis prompt"} {
		if strings.Contains(sent.Prompt, absent) {
			t.Fatalf("prompt must not contain %q:\n%s", absent, sent.Prompt)
		}
	}
	if strings.Index(sent.Prompt, "question 3") > strings.Index(sent.Prompt, "question 7") {
		t.Fatalf("exchanges must be replayed oldest first:\n%s", sent.Prompt)
	}
	recorded := s.items[len(s.items)-1]
	if recorded.Prompt != "When should I write the report?" {
		t.Fatalf("only the question should be recorded, got %q", recorded.Prompt)
	}
	if _, err := svc.Ask(context.Background(), "  ", 0); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

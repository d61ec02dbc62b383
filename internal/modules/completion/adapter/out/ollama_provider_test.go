package out

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"jarvis/internal/modules/completion/domain"
	apperrors "jarvis/internal/platform/errors"
)

func TestOllamaProviderComplete(t *testing.T) {
	t.Parallel()
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.2","created_at":"2026-03-01T09:00:00Z","response":"pong","done":true,"done_reason":"stop","prompt_eval_count":5,"eval_count":2}` + "\n"))
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(srv.URL, "llama3.2", srv.Client())
	require.NoError(t, err)
	resp, err := p.Complete(context.Background(), domain.Request{Prompt: "ping", MaxTokens: 32})
	require.NoError(t, err)
	require.Equal(t, "pong", resp.Text)
	require.Equal(t, "stop", resp.StopReason)
	require.Equal(t, 5, resp.InputTokens)
	require.Equal(t, 2, resp.OutputTokens)
	require.Equal(t, false, got["stream"])
	require.Equal(t, "llama3.2", got["model"])
}

func TestOllamaProviderRateLimited(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"server busy"}` + "\n"))
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(srv.URL, "llama3.2", srv.Client())
	require.NoError(t, err)
	_, err = p.Complete(context.Background(), domain.Request{Prompt: "ping"})
	require.ErrorIs(t, err, apperrors.ErrModelRequest)
	require.ErrorIs(t, err, apperrors.ErrRateLimited)
}

func TestOllamaProviderRejectsBadHost(t *testing.T) {
	t.Parallel()
	_, err := NewOllamaProvider("://nope", "llama3.2", nil)
	require.ErrorIs(t, err, apperrors.ErrConfig)
}

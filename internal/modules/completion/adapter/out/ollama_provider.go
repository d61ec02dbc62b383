package out

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"jarvis/internal/modules/completion/domain"
	completionout "jarvis/internal/modules/completion/port/out"
	apperrors "jarvis/internal/platform/errors"
)

// OllamaProvider runs prompts against a local Ollama server.
type OllamaProvider struct {
	client *api.Client
	model  string
}

func NewOllamaProvider(host, model string, httpClient *http.Client) (completionout.Provider, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("%w: parse ollama host %q: %v", apperrors.ErrConfig, host, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OllamaProvider{client: api.NewClient(base, httpClient), model: model}, nil
}

func (p *OllamaProvider) Name() string  { return "ollama" }
func (p *OllamaProvider) Model() string { return p.model }

func (p *OllamaProvider) Complete(ctx context.Context, req domain.Request) (domain.Response, error) {
	stream := false
	options := map[string]any{}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}
	if req.Temperature != nil {
		options["temperature"] = *req.Temperature
	}
	genReq := &api.GenerateRequest{
		Model:   p.model,
		Prompt:  req.Prompt,
		System:  req.System,
		Stream:  &stream,
		Options: options,
	}

	var text strings.Builder
	out := domain.Response{Model: p.model}
	err := p.client.Generate(ctx, genReq, func(r api.GenerateResponse) error {
		text.WriteString(r.Response)
		if r.Done {
			if r.Model != "" {
				out.Model = r.Model
			}
			out.StopReason = r.DoneReason
			out.InputTokens = r.PromptEvalCount
			out.OutputTokens = r.EvalCount
		}
		return nil
	})
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return domain.Response{}, classifyStatus("ollama", statusErr.StatusCode, err)
		}
		return domain.Response{}, fmt.Errorf("%w: ollama: %v", apperrors.ErrModelRequest, err)
	}
	out.Text = text.String()
	return out, nil
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/tbourn/go-survey-backend/internal/config"
)

// HTTPBackend talks to any OpenAI-compatible /chat/completions endpoint
// (vLLM, Ollama, LocalAI) over plain HTTP.
type HTTPBackend struct {
	client      *resty.Client
	endpoint    string
	model       string
	temperature float64
	maxTokens   int
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		TotalTokens int64 `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewHTTPBackend builds a resty client for cfg.BaseURL.
func NewHTTPBackend(cfg config.LLMConfig) *HTTPBackend {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &HTTPBackend{
		client:      client,
		endpoint:    strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (b *HTTPBackend) Model() string { return b.model }

func (b *HTTPBackend) Available() bool { return true }

func (b *HTTPBackend) Generate(ctx context.Context, title, description string) (Generation, error) {
	req := chatRequest{
		Model: b.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: UserPrompt(title, description)},
		},
		Temperature: b.temperature,
		MaxTokens:   b.maxTokens,
	}

	var resp chatResponse
	httpResp, err := b.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(b.endpoint)
	if err != nil {
		return Generation{}, unavailable(fmt.Errorf("call completions: %w", err))
	}

	if httpResp.IsError() {
		msg := string(httpResp.Body())
		if resp.Error != nil && resp.Error.Message != "" {
			msg = resp.Error.Message
		}
		return Generation{}, unavailable(fmt.Errorf("HTTP %d: %s", httpResp.StatusCode(), msg))
	}
	if resp.Error != nil {
		return Generation{}, unavailable(errors.New(resp.Error.Message))
	}
	if len(resp.Choices) == 0 {
		return Generation{}, unavailable(fmt.Errorf("no choices in response (status: %d)", httpResp.StatusCode()))
	}

	g := Generation{Raw: resp.Choices[0].Message.Content, Model: resp.Model}
	if g.Model == "" {
		g.Model = b.model
	}
	if resp.Usage != nil {
		g.TokensUsed = intPtr(resp.Usage.TotalTokens)
	}
	return g, nil
}

package llm

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/tbourn/go-survey-backend/internal/config"
)

// OpenAIBackend calls the chat completions API through the official SDK.
type OpenAIBackend struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewOpenAIBackend builds a client from cfg. SDK retries are disabled; one
// call per cache miss.
func NewOpenAIBackend(cfg config.LLMConfig) *OpenAIBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &OpenAIBackend{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (b *OpenAIBackend) Model() string { return b.model }

func (b *OpenAIBackend) Available() bool { return true }

func (b *OpenAIBackend) Generate(ctx context.Context, title, description string) (Generation, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(UserPrompt(title, description)),
		},
		Temperature: openai.Float(b.temperature),
		MaxTokens:   openai.Int(int64(b.maxTokens)),
	})
	if err != nil {
		return Generation{}, unavailable(err)
	}
	if len(resp.Choices) == 0 {
		return Generation{}, unavailable(errors.New("openai: empty choices"))
	}

	model := resp.Model
	if model == "" {
		model = b.model
	}
	return Generation{
		Raw:        resp.Choices[0].Message.Content,
		Model:      model,
		TokensUsed: intPtr(resp.Usage.TotalTokens),
	}, nil
}

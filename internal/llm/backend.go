// Package llm provides the generation backends that turn a survey brief into
// raw model output. A backend makes exactly one attempt per call: there are
// no retries and no client-side rate limiting.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tbourn/go-survey-backend/internal/config"
)

// ErrUnavailable wraps every backend failure: missing credentials, transport
// errors, non-2xx responses and empty completions.
var ErrUnavailable = errors.New("generation backend unavailable")

// Generation is the raw result of one backend call.
type Generation struct {
	Raw        string
	Model      string
	TokensUsed *int
}

// Backend produces raw survey text for a brief.
type Backend interface {
	Generate(ctx context.Context, title, description string) (Generation, error)
	Model() string
	Available() bool
}

// New returns the backend selected by cfg.Provider. When the provider is
// missing credentials it returns an UnavailableBackend, so the service can
// still start and serve cached surveys.
func New(cfg config.LLMConfig) Backend {
	if !cfg.Configured() {
		return UnavailableBackend{ModelName: cfg.Model, Reason: "OpenAI API key not configured"}
	}
	switch cfg.Provider {
	case "static":
		return StaticBackend{ModelName: "static"}
	case "http":
		return NewHTTPBackend(cfg)
	default:
		return NewOpenAIBackend(cfg)
	}
}

// UnavailableBackend always fails with ErrUnavailable.
type UnavailableBackend struct {
	ModelName string
	Reason    string
}

func (b UnavailableBackend) Generate(context.Context, string, string) (Generation, error) {
	if b.Reason == "" {
		return Generation{}, ErrUnavailable
	}
	return Generation{}, fmt.Errorf("%w: %s", ErrUnavailable, b.Reason)
}

func (b UnavailableBackend) Model() string { return b.ModelName }

func (UnavailableBackend) Available() bool { return false }

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func intPtr(v int64) *int {
	if v <= 0 {
		return nil
	}
	n := int(v)
	return &n
}

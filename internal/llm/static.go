package llm

import (
	"context"
	"encoding/json"

	"github.com/tbourn/go-survey-backend/internal/domain"
)

// StaticBackend returns a fixed survey shaped around the brief. It never
// touches the network and is meant for local development and tests.
type StaticBackend struct {
	ModelName string
}

func (b StaticBackend) Model() string { return b.ModelName }

func (StaticBackend) Available() bool { return true }

func (b StaticBackend) Generate(ctx context.Context, title, description string) (Generation, error) {
	if err := ctx.Err(); err != nil {
		return Generation{}, unavailable(err)
	}
	s := domain.Survey{
		Title:       title,
		Description: description,
		Questions: []domain.Question{
			{ID: "q1", Type: domain.ShortAnswer, Title: "What is your name?", Saved: true, Options: []domain.Option{}},
			{ID: "q2", Type: domain.SingleChoice, Title: "How did you hear about us?", Saved: true, Options: []domain.Option{
				{ID: "opt1", Text: "Search engine"},
				{ID: "opt2", Text: "Friend or colleague"},
				{ID: "opt3", Text: "Social media"},
			}},
			{ID: "q3", Type: domain.MultipleChoice, Title: "Which topics matter most to you?", Saved: true, Options: []domain.Option{
				{ID: "opt1", Text: "Quality"},
				{ID: "opt2", Text: "Price"},
				{ID: "opt3", Text: "Support"},
			}},
			{ID: "q4", Type: domain.Scale, Title: "How satisfied are you overall?", Saved: true, Options: []domain.Option{}},
			{ID: "q5", Type: domain.OpenQuestion, Title: "What could we improve?", Saved: true, Options: []domain.Option{}},
		},
	}
	b2, err := json.Marshal(s)
	if err != nil {
		return Generation{}, unavailable(err)
	}
	return Generation{Raw: string(b2), Model: b.ModelName}, nil
}

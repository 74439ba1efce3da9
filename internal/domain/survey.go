package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// QuestionType tags a survey question. The set is closed.
type QuestionType string

const (
	MultipleChoice QuestionType = "multipleChoice"
	SingleChoice   QuestionType = "singleChoice"
	OpenQuestion   QuestionType = "openQuestion"
	ShortAnswer    QuestionType = "shortAnswer"
	Scale          QuestionType = "scale"
)

// QuestionTypes lists every valid QuestionType in prompt order.
var QuestionTypes = []QuestionType{ShortAnswer, MultipleChoice, SingleChoice, OpenQuestion, Scale}

// Valid reports whether t belongs to the closed set of question types.
func (t QuestionType) Valid() bool {
	switch t {
	case MultipleChoice, SingleChoice, OpenQuestion, ShortAnswer, Scale:
		return true
	}
	return false
}

// Option is one answer choice of a choice-type question.
type Option struct {
	ID   string `json:"id"   example:"opt1"`
	Text string `json:"text" example:"Very satisfied"`
}

// Question is a single typed survey question. Options is always present in
// JSON (possibly empty) and only meaningful for choice-type questions.
type Question struct {
	ID      string       `json:"id"      example:"q1"`
	Type    QuestionType `json:"type"    example:"singleChoice" enums:"multipleChoice,singleChoice,openQuestion,shortAnswer,scale"`
	Title   string       `json:"title"   example:"How satisfied are you with our support?"`
	Saved   bool         `json:"saved"   example:"true"`
	Options []Option     `json:"options"`
}

// Survey is the generated survey document returned to callers and stored
// verbatim in generated_surveys.payload.
type Survey struct {
	Title       string     `json:"title"       example:"Customer Satisfaction"`
	Description string     `json:"description" example:"Quarterly survey"`
	Questions   []Question `json:"questions"`
}

// Unparsed is the degraded payload produced when backend output could not be
// decoded into a Survey. It carries the raw text so nothing is lost.
type Unparsed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	RawResponse string `json:"raw_ai_response"`
	Error       string `json:"error"`
	ParseFailed bool   `json:"parse_failed"`
}

// Payload is either a validated Survey or an Unparsed fallback, never both.
type Payload struct {
	Survey   *Survey
	Unparsed *Unparsed
}

// Degraded reports whether the payload is the Unparsed variant.
func (p Payload) Degraded() bool { return p.Survey == nil }

// MarshalJSON encodes whichever variant is set.
func (p Payload) MarshalJSON() ([]byte, error) {
	switch {
	case p.Survey != nil:
		return json.Marshal(p.Survey)
	case p.Unparsed != nil:
		return json.Marshal(p.Unparsed)
	}
	return nil, errors.New("domain: empty payload")
}

// NewUnparsed builds the degraded payload for a brief whose generated output
// failed validation.
func NewUnparsed(title, description, raw string, cause error) Payload {
	msg := "Failed to parse AI response as JSON"
	if cause != nil {
		msg = msg + ": " + cause.Error()
	}
	return Payload{Unparsed: &Unparsed{
		Title:       title,
		Description: description,
		RawResponse: raw,
		Error:       msg,
		ParseFailed: true,
	}}
}

// ErrMalformedOutput marks generated text that is not a well-formed survey.
var ErrMalformedOutput = errors.New("malformed generation output")

// wire shapes use pointers so that missing fields can be told apart from
// zero values.
type wireOption struct {
	ID   *string `json:"id"`
	Text *string `json:"text"`
}

type wireQuestion struct {
	ID      *string       `json:"id"`
	Type    *string       `json:"type"`
	Title   *string       `json:"title"`
	Saved   *bool         `json:"saved"`
	Options *[]wireOption `json:"options"`
}

type wireSurvey struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Questions   *[]wireQuestion `json:"questions"`
}

// DecodeSurvey interprets raw backend text as a Survey. A surrounding
// Markdown code fence is tolerated; anything else that is not a complete,
// well-typed survey document yields an error wrapping ErrMalformedOutput.
func DecodeSurvey(raw string) (*Survey, error) {
	body := stripCodeFence(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: empty output", ErrMalformedOutput)
	}

	var w wireSurvey
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if w.Title == nil {
		return nil, fmt.Errorf("%w: missing title", ErrMalformedOutput)
	}
	if w.Description == nil {
		return nil, fmt.Errorf("%w: missing description", ErrMalformedOutput)
	}
	if w.Questions == nil || len(*w.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrMalformedOutput)
	}

	s := &Survey{
		Title:       *w.Title,
		Description: *w.Description,
		Questions:   make([]Question, 0, len(*w.Questions)),
	}
	for i, wq := range *w.Questions {
		q, err := decodeQuestion(wq)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrMalformedOutput, i, err)
		}
		s.Questions = append(s.Questions, q)
	}
	return s, nil
}

func decodeQuestion(wq wireQuestion) (Question, error) {
	switch {
	case wq.ID == nil || strings.TrimSpace(*wq.ID) == "":
		return Question{}, errors.New("missing id")
	case wq.Type == nil:
		return Question{}, errors.New("missing type")
	case wq.Title == nil || strings.TrimSpace(*wq.Title) == "":
		return Question{}, errors.New("missing title")
	case wq.Saved == nil:
		return Question{}, errors.New("missing saved")
	case wq.Options == nil:
		return Question{}, errors.New("missing options")
	}
	qt := QuestionType(*wq.Type)
	if !qt.Valid() {
		return Question{}, fmt.Errorf("unknown type %q", *wq.Type)
	}

	opts := make([]Option, 0, len(*wq.Options))
	for j, wo := range *wq.Options {
		if wo.ID == nil || wo.Text == nil {
			return Question{}, fmt.Errorf("option %d: missing id or text", j)
		}
		opts = append(opts, Option{ID: *wo.ID, Text: *wo.Text})
	}
	return Question{
		ID:      *wq.ID,
		Type:    qt,
		Title:   *wq.Title,
		Saved:   *wq.Saved,
		Options: opts,
	}, nil
}

// stripCodeFence removes a ```json ... ``` (or bare ```) wrapper.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		return ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

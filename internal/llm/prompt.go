package llm

import (
	"fmt"
	"strings"

	"github.com/tbourn/go-survey-backend/internal/domain"
)

// SystemPrompt pins the model to JSON-only output.
const SystemPrompt = "You are a survey creation assistant. Always respond with valid JSON only."

const userPromptTemplate = `Create a survey with the title %q and description %q.

Generate a JSON response with exactly this structure:
{
    "title": %q,
    "description": %q,
    "questions": [
        {"id": "q1", "type": "shortAnswer", "title": "Question text here", "saved": true, "options": []},
        {"id": "q2", "type": "multipleChoice", "title": "Question text here", "saved": true,
         "options": [{"id": "opt1", "text": "Option 1"}, {"id": "opt2", "text": "Option 2"}]},
        {"id": "q3", "type": "singleChoice", "title": "Question text here", "saved": true,
         "options": [{"id": "opt1", "text": "Option 1"}, {"id": "opt2", "text": "Option 2"}]},
        {"id": "q4", "type": "openQuestion", "title": "Question text here", "saved": true, "options": []},
        {"id": "q5", "type": "scale", "title": "Question text here", "saved": true, "options": []}
    ]
}

Valid question types are: %s
Include 5-7 relevant questions with variety between the types. For choice questions, provide
appropriate options. The question should match the type of question, for example if a question
is better answered with one option, it should be a singleChoice question.
Every question must have a unique id and an "options" array (empty for non-choice questions).
Return only valid JSON, no other text.`

// UserPrompt renders the generation instructions for a brief.
func UserPrompt(title, description string) string {
	types := make([]string, 0, len(domain.QuestionTypes))
	for _, t := range domain.QuestionTypes {
		types = append(types, string(t))
	}
	return fmt.Sprintf(userPromptTemplate, title, description, title, description, strings.Join(types, ", "))
}

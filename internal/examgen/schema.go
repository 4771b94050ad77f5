package examgen

import (
	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/llm"
)

// QuestionSetSchema defines the JSON array the model must return.
var QuestionSetSchema = &llm.Schema{
	Name:        "question-set",
	Description: "An exam question set generated from a study document",
	Definition: map[string]any{
		"type":     "array",
		"minItems": 1,
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type":        "integer",
					"description": "1-based position of the question in the exam",
				},
				"type": map[string]any{
					"type":        "string",
					"enum":        typeEnum(),
					"description": "How the question is answered",
				},
				"question": map[string]any{
					"type":        "string",
					"description": "The question text. Fill-in-the-blanks questions mark the gap with ____.",
				},
				"options": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Exactly 4 options for multiple-choice. Omit for other types.",
				},
				"correctAnswer": map[string]any{
					"type":        "string",
					"description": "The correct answer. For multiple-choice, the exact text of one option.",
				},
			},
			"required":             []any{"id", "type", "question", "correctAnswer"},
			"additionalProperties": false,
			"propertyOrdering":     []any{"id", "type", "question", "options", "correctAnswer"},
		},
	},
}

func typeEnum() []any {
	out := make([]any, len(exam.Types))
	for i, t := range exam.Types {
		out[i] = string(t)
	}
	return out
}

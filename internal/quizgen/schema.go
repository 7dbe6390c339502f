package quizgen

import "github.com/abhisek/docquiz/internal/llm"

// QuizSchema defines the JSON schema for quiz generation responses.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A batch of multiple-choice quiz questions grounded in the supplied source material",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"quizId": map[string]any{
				"type":        "string",
				"description": "A short identifier for this quiz",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "A display title for the quiz",
			},
			"scope": map[string]any{
				"type": "string",
				"enum": []any{"subtopic", "topic", "document"},
			},
			"context": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"scope":         map[string]any{"type": "string", "enum": []any{"subtopic", "topic", "document"}},
					"questionCount": map[string]any{"type": "integer", "minimum": 0},
					"difficulty":    map[string]any{"type": "string"},
				},
				"required":             []any{"scope", "questionCount", "difficulty"},
				"additionalProperties": false,
			},
			"questions": map[string]any{
				"type":  "array",
				"items": questionSchema,
			},
		},
		"required":             []any{"quizId", "questions", "title", "scope", "context"},
		"additionalProperties": false,
	},
}

var questionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id": map[string]any{
			"type":        "string",
			"description": "Question identifier such as q1",
		},
		"prompt": map[string]any{
			"type":        "string",
			"description": "The question text shown to the learner",
		},
		"options": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"A": map[string]any{"type": "string"},
				"B": map[string]any{"type": "string"},
				"C": map[string]any{"type": "string"},
				"D": map[string]any{"type": "string"},
			},
			"required":             []any{"A", "B", "C", "D"},
			"additionalProperties": false,
		},
		"correct": map[string]any{
			"type":        "string",
			"enum":        []any{"A", "B", "C", "D"},
			"description": "Letter of the correct option",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "Why the correct option is right, in terms of the subject matter",
		},
		"difficulty": map[string]any{
			"type": "string",
			"enum": []any{"easy", "medium", "hard"},
		},
		"sourcePages": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "integer"},
			"description": "Pages of the source material the question draws on",
		},
	},
	"required":             []any{"id", "prompt", "options", "correct", "explanation", "difficulty", "sourcePages"},
	"additionalProperties": false,
}

package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// questionSchema mirrors the shape of a generated quiz question.
func questionSchema() *Schema {
	return &Schema{
		Name: "test-question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"prompt":      map[string]any{"type": "string"},
				"correct":     map[string]any{"type": "string", "enum": []string{"A", "B", "C", "D"}},
				"sourcePages": map[string]any{"type": "array", "items": map[string]any{"type": "integer", "minimum": 1}},
				"options": map[string]any{
					"type":                 "object",
					"required":             []any{"A", "B"},
					"additionalProperties": false,
					"properties": map[string]any{
						"A": map[string]any{"type": "string"},
						"B": map[string]any{"type": "string"},
					},
				},
			},
			"required": []any{"prompt", "correct"},
		},
	}
}

func TestValidateResponse_Accepts(t *testing.T) {
	tests := map[string]string{
		"full":             `{"prompt":"What does chlorophyll absorb?","correct":"A","sourcePages":[3,4],"options":{"A":"light","B":"water"}}`,
		"optional omitted": `{"prompt":"Where does the Calvin cycle run?","correct":"C"}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			if err := validateResponse(questionSchema(), json.RawMessage(raw)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateResponse_Rejects(t *testing.T) {
	tests := map[string]string{
		"missing correct": `{"prompt":"What is ATP?"}`,
		"letter E":        `{"prompt":"What is ATP?","correct":"E"}`,
		"page as string":  `{"prompt":"What is ATP?","correct":"A","sourcePages":["3"]}`,
		"page zero":       `{"prompt":"What is ATP?","correct":"A","sourcePages":[0]}`,
		"extra option":    `{"prompt":"What is ATP?","correct":"A","options":{"A":"x","B":"y","E":"z"}}`,
		"not json":        `{prompt: What is ATP?}`,
		"empty":           ``,
		"trailing text":   `{"prompt":"What is ATP?","correct":"A"} Hope this helps!`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			err := validateResponse(questionSchema(), json.RawMessage(raw))
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("err = %v, want ErrInvalidResponse", err)
			}
			if string(inv.Content) != raw {
				t.Fatalf("Content = %q, want the raw answer", inv.Content)
			}
		})
	}
}

func TestValidateResponse_MessageIsOneLine(t *testing.T) {
	err := validateResponse(questionSchema(), json.RawMessage(`{"prompt":1,"correct":"Z"}`))
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(err.Error(), "\n") {
		t.Fatalf("message spans lines: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "test-question") {
		t.Fatalf("message should name the schema: %q", err.Error())
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`plain text`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateResponse_BrokenSchema(t *testing.T) {
	broken := &Schema{Name: "test-broken", Definition: map[string]any{"type": 42}}
	err := validateResponse(broken, json.RawMessage(`{}`))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want ErrInvalidResponse", err)
	}
}

func TestCompileSchema_Cached(t *testing.T) {
	first, err := compileSchema(questionSchema())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, err := compileSchema(questionSchema())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if first != second {
		t.Fatal("expected the compiled schema to be reused")
	}
}

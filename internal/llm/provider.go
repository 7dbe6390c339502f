package llm

import (
	"context"
	"encoding/json"
)

// Provider is one LLM backend. Quiz generation sends a single user turn
// with a schema and expects schema-valid JSON back.
type Provider interface {
	// Generate runs one completion. With req.Schema set, Content is JSON
	// already validated against it; otherwise Content is the raw text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the configured model, before any backend aliasing.
	ModelID() string
}

type Request struct {
	System   string
	Messages []Message

	// Schema requests structured output through the backend's native
	// mechanism (tool schema, json_schema format, response schema).
	Schema *Schema

	MaxTokens int

	// Temperature 0 leaves the backend default in place.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema document. Name is kebab-case, for
// example "quiz-questions", and doubles as the validator cache key.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is what the backend reports, often a dated snapshot of ModelID.
	Model string

	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// finish turns a backend answer into a Response. A structured answer that
// stopped at the token limit is reported as truncated before validation,
// since the JSON is incomplete anyway.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if req.Schema != nil {
		if stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: content}
		}
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel expands a short alias such as "claude-haiku"; anything else
// is taken as a literal model ID.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

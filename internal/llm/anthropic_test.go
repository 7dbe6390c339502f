package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func anthropicStub(t *testing.T, status int, body map[string]any) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: "claude-haiku-4-5-20251001"}
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 1200, "output_tokens": 480},
	}
}

func anthropicError(kind, msg string) map[string]any {
	return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": msg}}
}

var quizRequest = Request{
	System:    "You write multiple-choice quizzes.",
	Messages:  []Message{{Role: RoleUser, Content: "Topic: Photosynthesis\nQuestion count: 1"}},
	MaxTokens: 1024,
}

func TestAnthropicProvider_Generate(t *testing.T) {
	p := anthropicStub(t, http.StatusOK, anthropicMessage(`{"prompt":"What does chlorophyll absorb?","correct":"A"}`, "end_turn"))

	resp, err := p.Generate(context.Background(), quizRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 1200 || resp.Usage.TotalTokens != 1680 {
		t.Fatalf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != StopEnd || resp.Model != "claude-haiku-4-5-20251001" {
		t.Fatalf("stop=%q model=%q", resp.StopReason, resp.Model)
	}
}

func TestAnthropicProvider_TruncatedQuizBatch(t *testing.T) {
	p := anthropicStub(t, http.StatusOK, anthropicMessage(`{"quizId":"q","questions":[{"prompt":"Wh`, "max_tokens"))

	req := quizRequest
	req.Schema = &Schema{Name: "test-anthropic-batch", Definition: map[string]any{"type": "object"}}
	_, err := p.Generate(context.Background(), req)

	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("err = %v, want ErrMaxTokensExceeded", err)
	}
}

func TestAnthropicProvider_SchemaMismatch(t *testing.T) {
	p := anthropicStub(t, http.StatusOK, anthropicMessage(`{"questions":"none"}`, "end_turn"))

	req := quizRequest
	req.Schema = &Schema{Name: "test-anthropic-questions", Definition: map[string]any{
		"type":       "object",
		"properties": map[string]any{"questions": map[string]any{"type": "array"}},
	}}
	_, err := p.Generate(context.Background(), req)

	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want ErrInvalidResponse", err)
	}
}

func TestAnthropicProvider_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   map[string]any
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, anthropicError("rate_limit_error", "slow down"),
			func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{"overloaded", http.StatusInternalServerError, anthropicError("api_error", "internal"),
			func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
		{"bad key", http.StatusUnauthorized, anthropicError("authentication_error", "invalid x-api-key"),
			func(err error) bool { var e *ErrAuth; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := anthropicStub(t, tt.status, tt.body).Generate(context.Background(), quizRequest)
			if !tt.check(err) {
				t.Fatalf("err = %T (%v)", err, err)
			}
		})
	}
}

func TestNewAnthropicProvider(t *testing.T) {
	if _, err := NewAnthropicProvider(AnthropicConfig{Model: "claude-haiku"}); err == nil {
		t.Fatal("expected error without API key")
	}
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "sk-ant-test", Model: "claude-sonnet"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "claude-sonnet-4-5-20250929" {
		t.Fatalf("ModelID = %q", p.ModelID())
	}
	if got := resolveModel("claude-opus-4-1", anthropicAliases); got != "claude-opus-4-1" {
		t.Fatalf("literal model rewritten to %q", got)
	}
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// openAIStub serves one canned chat completion answer and captures the
// request body it received.
func openAIStub(t *testing.T, status int, body map[string]any) (*OpenAIProvider, *map[string]any) {
	t.Helper()
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return &OpenAIProvider{client: openai.NewClientWithConfig(config), model: "gpt-4o-mini"}, &got
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini-2024-07-18",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	p, sent := openAIStub(t, http.StatusOK, chatCompletion(`{"prompt":"What does chlorophyll absorb?","correct":"A"}`, "stop"))

	req := quizRequest
	req.Schema = &Schema{
		Name:        "test-openai-question",
		Description: "one question",
		Definition: map[string]any{
			"type":     "object",
			"required": []any{"prompt", "correct"},
		},
	}
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 || resp.Usage.TotalTokens != 65 {
		t.Fatalf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != StopEnd || resp.Model != "gpt-4o-mini-2024-07-18" {
		t.Fatalf("stop=%q model=%q", resp.StopReason, resp.Model)
	}

	messages, _ := (*sent)["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("sent %d messages, want system + user", len(messages))
	}
	format, _ := (*sent)["response_format"].(map[string]any)
	schema, _ := format["json_schema"].(map[string]any)
	if format["type"] != "json_schema" || schema["name"] != "test-openai-question" || schema["strict"] != true {
		t.Fatalf("response_format = %v", format)
	}
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	p, _ := openAIStub(t, http.StatusOK, chatCompletion(`{"quizId":"q","questions":[{"pro`, "length"))

	req := quizRequest
	req.Schema = &Schema{Name: "test-openai-batch", Definition: map[string]any{"type": "object"}}
	_, err := p.Generate(context.Background(), req)

	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("err = %v, want ErrMaxTokensExceeded", err)
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	body := chatCompletion("", "stop")
	body["choices"] = []map[string]any{}
	p, _ := openAIStub(t, http.StatusOK, body)

	_, err := p.Generate(context.Background(), quizRequest)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want ErrInvalidResponse", err)
	}
}

func TestOpenAIProvider_ErrorStatuses(t *testing.T) {
	apiError := func(kind string) map[string]any {
		return map[string]any{"error": map[string]any{"type": kind, "message": kind}}
	}
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{"server", http.StatusBadGateway, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
		{"bad key", http.StatusUnauthorized, func(err error) bool { var e *ErrAuth; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := openAIStub(t, tt.status, apiError(tt.name))
			_, err := p.Generate(context.Background(), quizRequest)
			if !tt.check(err) {
				t.Fatalf("err = %T (%v)", err, err)
			}
		})
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o-mini"}); err == nil {
		t.Fatal("expected error without API key")
	}
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "gpt-mini", BaseURL: "http://localhost:11434/v1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("ModelID = %q", p.ModelID())
	}
}

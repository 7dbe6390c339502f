package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"quizId":"cells-1","questions":[]}`),
		Usage:   Usage{InputTokens: 900, OutputTokens: 300, TotalTokens: 1200},
	})
	mock.Enqueue(MockResponse{Content: json.RawMessage(`{"quizId":"cells-2","questions":[]}`)})

	first, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "Quiz on mitosis"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first.Content) != `{"quizId":"cells-1","questions":[]}` || first.Usage.TotalTokens != 1200 {
		t.Fatalf("first = %s %+v", first.Content, first.Usage)
	}
	if first.StopReason != StopEnd || first.Model != "mock" {
		t.Fatalf("first stop=%q model=%q", first.StopReason, first.Model)
	}

	second, err := mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(second.Content) != `{"quizId":"cells-2","questions":[]}` {
		t.Fatalf("second = %s", second.Content)
	}

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("exhausted queue err = %v, want ErrProviderUnavailable", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("calls = %d, want 3", mock.CallCount())
	}
}

func TestMockProvider_RecordsRequests(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	_, _ = mock.Generate(context.Background(), Request{
		System:   "You write multiple-choice quizzes.",
		Messages: []Message{{Role: RoleUser, Content: "Topic: Photosynthesis"}},
	})

	reqs := mock.Requests()
	if len(reqs) != 1 || reqs[0].System != "You write multiple-choice quizzes." {
		t.Fatalf("requests = %+v", reqs)
	}
	reqs[0].System = "mutated"
	if mock.Requests()[0].System == "mutated" {
		t.Fatal("Requests must return a copy")
	}
}

func TestMockProvider_ScriptedErrorAndCancellation(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}}, MockResponse{Content: json.RawMessage(`{}`)})

	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("err = %v, want ErrRateLimit", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := mock.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("cancelled call must not consume the queue, calls = %d", mock.CallCount())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeUnknown {
		t.Fatalf("PurposeFrom(empty) = %q", p)
	}
	if p := PurposeFrom(WithPurpose(ctx, "")); p != PurposeUnknown {
		t.Fatalf("PurposeFrom(blank) = %q", p)
	}
	if p := PurposeFrom(WithPurpose(ctx, PurposeQuizGen)); p != "quiz-gen" {
		t.Fatalf("PurposeFrom = %q", p)
	}
}

func TestErrorClassification(t *testing.T) {
	base := errors.New("backend said no")
	tests := []struct {
		status    int
		retryable bool
		check     func(error) bool
	}{
		{429, true, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{401, false, func(err error) bool { var e *ErrAuth; return errors.As(err, &e) && e.StatusCode == 401 }},
		{403, false, func(err error) bool { var e *ErrAuth; return errors.As(err, &e) }},
		{503, true, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
		{0, true, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		err := classifyStatus(tt.status, base)
		if !tt.check(err) {
			t.Errorf("classifyStatus(%d) = %T", tt.status, err)
		}
		if !errors.Is(err, base) {
			t.Errorf("classifyStatus(%d) lost the cause", tt.status)
		}
		if retryable(err) != tt.retryable {
			t.Errorf("retryable(%d) = %v, want %v", tt.status, !tt.retryable, tt.retryable)
		}
	}
	if retryable(&ErrMaxTokensExceeded{}) {
		t.Error("a truncated answer must not be retried")
	}
	if !retryable(&ErrInvalidResponse{Err: base}) {
		t.Error("a malformed answer should be retryable")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
		{
			name:    "openai embeddings without key",
			cfg:     Config{Provider: "mock", Embedding: EmbeddingConfig{Provider: "openai"}},
			wantErr: true,
		},
		{
			name: "gemini embeddings with key",
			cfg: Config{
				Provider:  "anthropic",
				Anthropic: AnthropicConfig{APIKey: "sk-test"},
				Gemini:    GeminiConfig{APIKey: "g-test"},
				Embedding: EmbeddingConfig{Provider: "gemini"},
			},
			wantErr: false,
		},
		{
			name:    "embeddings disabled",
			cfg:     Config{Provider: "mock", Embedding: EmbeddingConfig{Provider: "none"}},
			wantErr: false,
		},
		{
			name:    "unknown embedding provider",
			cfg:     Config{Provider: "mock", Embedding: EmbeddingConfig{Provider: "cohere"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateMessageNamesEnvVar(t *testing.T) {
	err := Config{Provider: "openrouter"}.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "DOCQUIZ_OPENROUTER_API_KEY") {
		t.Fatalf("expected env var in message, got %q", err)
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv("DOCQUIZ_LLM_PROVIDER", "openai")
	t.Setenv("DOCQUIZ_OPENAI_API_KEY", "sk-env")
	t.Setenv("DOCQUIZ_EMBEDDING_DIMENSION", "256")
	t.Setenv("DOCQUIZ_LLM_TIMEOUT", "15s")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-env" {
		t.Fatalf("provider not applied: %+v", cfg)
	}
	if cfg.Embedding.Dimension != 256 {
		t.Fatalf("expected dimension 256, got %d", cfg.Embedding.Dimension)
	}
	if cfg.Timeout != 15*time.Second {
		t.Fatalf("expected 15s timeout, got %v", cfg.Timeout)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("unset variables should keep defaults, got model %q", cfg.OpenAI.Model)
	}
}

func TestConfig_ApplyEnvMalformed(t *testing.T) {
	t.Setenv("DOCQUIZ_LLM_MAX_TOKENS", "lots")

	cfg := DefaultConfig()
	err := cfg.ApplyEnv()
	if err == nil {
		t.Fatal("expected error for malformed max tokens")
	}
	if !strings.Contains(err.Error(), "DOCQUIZ_LLM_MAX_TOKENS") {
		t.Fatalf("expected variable name in error, got %q", err)
	}
}

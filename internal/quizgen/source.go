package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/docquiz/internal/llm"
	"github.com/abhisek/docquiz/internal/quiz"
)

// Batch is one generator response.
type Batch struct {
	// QuizID is the identifier proposed by the generator, if any.
	QuizID    string
	Questions []quiz.RawQuestion
}

// Source produces raw candidate questions for a prompt.
type Source interface {
	Generate(ctx context.Context, prompt string) (Batch, error)
}

// SourceConfig controls the LLM request made by LLMSource.
type SourceConfig struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one Generate call, retries included. Zero means no
	// limit beyond the caller's context.
	Timeout time.Duration
}

// DefaultSourceConfig returns the recommended request settings.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{MaxTokens: 4096, Temperature: 0.4, Timeout: 60 * time.Second}
}

// LLMSource implements Source using an LLM provider.
type LLMSource struct {
	provider llm.Provider
	config   SourceConfig
}

// NewLLMSource creates an LLMSource with the given provider and config.
func NewLLMSource(provider llm.Provider, cfg SourceConfig) *LLMSource {
	return &LLMSource{provider: provider, config: cfg}
}

// quizOutput is the raw LLM response. Questions stay loosely typed until
// normalization.
type quizOutput struct {
	QuizID    string             `json:"quizId"`
	Title     string             `json:"title"`
	Scope     string             `json:"scope"`
	Questions []quiz.RawQuestion `json:"questions"`
}

func (s *LLMSource) Generate(ctx context.Context, prompt string) (Batch, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGen)
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		Schema:      QuizSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return Batch{}, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out quizOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Batch{}, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	return Batch{QuizID: out.QuizID, Questions: out.Questions}, nil
}

package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/docquiz/internal/logger"
	"github.com/abhisek/docquiz/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
// eventRepo may be nil, in which case requests are only logged.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller -> retry -> logging -> backend, so every attempt is recorded.
	return WithRetry(WithLogging(base, cfg.Provider, eventRepo, log), cfg.Retry, log), nil
}

// NewEmbedder creates the Embedder selected by cfg.Embedding. It returns
// (nil, nil) when embedding is disabled, which turns the sampler's
// diversity guard off.
func NewEmbedder(ctx context.Context, cfg Config) (Embedder, error) {
	provider := cfg.Embedding.Provider
	if provider == "" {
		switch cfg.Provider {
		case "openai", "gemini", "mock":
			provider = cfg.Provider
		default:
			return nil, nil
		}
	}

	switch provider {
	case "none":
		return nil, nil
	case "openai":
		return NewOpenAIEmbedder(cfg.OpenAI, cfg.Embedding)
	case "gemini":
		return NewGeminiEmbedder(ctx, cfg.Gemini, cfg.Embedding)
	case "mock":
		return NewMockEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", provider)
	}
}

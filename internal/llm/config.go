package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "DOCQUIZ_"

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string `yaml:"provider"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`

	// Timeout is the maximum duration for a single LLM request
	// (including retries). Default: 60s.
	Timeout time.Duration `yaml:"timeout"`

	// MaxTokens caps the response size of a quiz generation call.
	MaxTokens int `yaml:"max_tokens"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `yaml:"base_url"` // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "google/gemini-2.5-flash"
	BaseURL string `yaml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// EmbeddingConfig selects the embedder behind the sampler's diversity
// guard. API keys are shared with the matching generation provider.
type EmbeddingConfig struct {
	// Provider is "openai", "gemini", "mock" or "none". Empty follows the
	// generation provider when it can embed, and disables embedding
	// otherwise.
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "anthropic",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout:   60 * time.Second,
		MaxTokens: 4096,
	}
}

// envOverrides maps DOCQUIZ_* variables (without the prefix) onto Config.
var envOverrides = []struct {
	name string
	set  func(c *Config, v string) error
}{
	{"LLM_PROVIDER", func(c *Config, v string) error { c.Provider = v; return nil }},
	{"ANTHROPIC_API_KEY", func(c *Config, v string) error { c.Anthropic.APIKey = v; return nil }},
	{"ANTHROPIC_MODEL", func(c *Config, v string) error { c.Anthropic.Model = v; return nil }},
	{"OPENAI_API_KEY", func(c *Config, v string) error { c.OpenAI.APIKey = v; return nil }},
	{"OPENAI_MODEL", func(c *Config, v string) error { c.OpenAI.Model = v; return nil }},
	{"OPENAI_BASE_URL", func(c *Config, v string) error { c.OpenAI.BaseURL = v; return nil }},
	{"GEMINI_API_KEY", func(c *Config, v string) error { c.Gemini.APIKey = v; return nil }},
	{"GEMINI_MODEL", func(c *Config, v string) error { c.Gemini.Model = v; return nil }},
	{"OPENROUTER_API_KEY", func(c *Config, v string) error { c.OpenRouter.APIKey = v; return nil }},
	{"OPENROUTER_MODEL", func(c *Config, v string) error { c.OpenRouter.Model = v; return nil }},
	{"EMBEDDING_PROVIDER", func(c *Config, v string) error { c.Embedding.Provider = v; return nil }},
	{"EMBEDDING_MODEL", func(c *Config, v string) error { c.Embedding.Model = v; return nil }},
	{"EMBEDDING_DIMENSION", func(c *Config, v string) (err error) {
		c.Embedding.Dimension, err = strconv.Atoi(v)
		return err
	}},
	{"LLM_TIMEOUT", func(c *Config, v string) (err error) {
		c.Timeout, err = time.ParseDuration(v)
		return err
	}},
	{"LLM_MAX_TOKENS", func(c *Config, v string) (err error) {
		c.MaxTokens, err = strconv.Atoi(v)
		return err
	}},
}

// ApplyEnv overlays every set DOCQUIZ_* variable onto c.
func (c *Config) ApplyEnv() error {
	for _, o := range envOverrides {
		v := os.Getenv(EnvPrefix + o.name)
		if v == "" {
			continue
		}
		if err := o.set(c, v); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, o.name, err)
		}
	}
	return nil
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// HasKey reports whether the selected provider has an API key configured.
func (c Config) HasKey() bool {
	switch c.Provider {
	case "anthropic":
		return c.Anthropic.APIKey != ""
	case "openai":
		return c.OpenAI.APIKey != ""
	case "gemini":
		return c.Gemini.APIKey != ""
	case "openrouter":
		return c.OpenRouter.APIKey != ""
	case "mock":
		return true
	}
	return false
}

// Validate checks that the selected provider has its required API key set
// and that the embedding provider is usable.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic", "openai", "gemini", "openrouter":
		if !c.HasKey() {
			return fmt.Errorf("%s%s_API_KEY is required for the %s provider", EnvPrefix, strings.ToUpper(c.Provider), c.Provider)
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}

	switch c.Embedding.Provider {
	case "", "none", "mock":
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("%sOPENAI_API_KEY is required for openai embeddings", EnvPrefix)
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("%sGEMINI_API_KEY is required for gemini embeddings", EnvPrefix)
		}
	default:
		return fmt.Errorf("unknown embedding provider: %q", c.Embedding.Provider)
	}
	return nil
}

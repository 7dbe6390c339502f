// Package config loads docquiz settings from a YAML file, a .env file and
// DOCQUIZ_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/docquiz/internal/evaluator"
	"github.com/abhisek/docquiz/internal/llm"
	"github.com/abhisek/docquiz/internal/quiz"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "docquiz.yaml"

// Config is the complete application configuration.
type Config struct {
	LLM        llm.Config            `yaml:"llm"`
	Generation quiz.GenerationConfig `yaml:"generation"`
	Evaluation evaluator.Config      `yaml:"evaluation"`
	Database   DatabaseConfig        `yaml:"database"`
	Log        LogConfig             `yaml:"log"`
}

// DatabaseConfig locates the SQLite database. An empty Path means the
// store's default location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig selects the logger mode ("dev" or "prod").
type LogConfig struct {
	Mode string `yaml:"mode"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LLM:        llm.DefaultConfig(),
		Generation: quiz.DefaultGenerationConfig(),
		Evaluation: evaluator.DefaultConfig(),
		Log:        LogConfig{Mode: "dev"},
	}
}

// Load builds the configuration. A missing file at path yields the
// defaults; any other read or parse failure is returned.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.LLM.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}
	if v := os.Getenv(llm.EnvPrefix + "DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv(llm.EnvPrefix + "LOG_MODE"); v != "" {
		cfg.Log.Mode = v
	}

	if !cfg.LLM.HasKey() {
		cfg.LLM = adoptDiscovered(cfg.LLM)
	}

	return &cfg, nil
}

// adoptDiscovered switches to the first provider with a well-known API key
// variable set (GEMINI_API_KEY, OPENAI_API_KEY, ...), keeping every other
// setting from c.
func adoptDiscovered(c llm.Config) llm.Config {
	found, ok := llm.DiscoverConfig()
	if !ok {
		return c
	}
	c.Provider = found.Provider
	c.Anthropic.APIKey = lo.CoalesceOrEmpty(c.Anthropic.APIKey, found.Anthropic.APIKey)
	c.OpenAI.APIKey = lo.CoalesceOrEmpty(c.OpenAI.APIKey, found.OpenAI.APIKey)
	c.Gemini.APIKey = lo.CoalesceOrEmpty(c.Gemini.APIKey, found.Gemini.APIKey)
	c.OpenRouter.APIKey = lo.CoalesceOrEmpty(c.OpenRouter.APIKey, found.OpenRouter.APIKey)
	return c
}

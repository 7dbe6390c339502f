package quiz

import (
	"github.com/abhisek/docquiz/internal/compress"
	"github.com/abhisek/docquiz/internal/heuristics"
	"github.com/abhisek/docquiz/internal/sampler"
)

// GenerationConfigVersion is the version stamped on DefaultGenerationConfig.
const GenerationConfigVersion = 2

// GenerationConfig holds the sampling and compression parameters for one
// request. It is treated as read-only once a request starts.
type GenerationConfig struct {
	Version           int             `json:"version" yaml:"version"`
	Sampling          sampler.Config  `json:"sampling" yaml:"sampling"`
	Compression       compress.Config `json:"compression" yaml:"compression"`
	HeuristicsVersion int             `json:"heuristicsVersion" yaml:"heuristics_version"`
}

// DefaultGenerationConfig returns the standard parameters.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Version:           GenerationConfigVersion,
		Sampling:          sampler.DefaultConfig(),
		Compression:       compress.DefaultConfig(),
		HeuristicsVersion: heuristics.Version,
	}
}

// OrDefault returns c, or the default config when c was never set.
func (c GenerationConfig) OrDefault() GenerationConfig {
	if c.Version == 0 {
		return DefaultGenerationConfig()
	}
	return c
}

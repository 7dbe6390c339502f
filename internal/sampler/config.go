package sampler

// MinSnippetLength is the minimum normalized length, in characters, a chunk
// needs before it can become a snippet.
const MinSnippetLength = 120

// charsPerToken is the divisor of the length-based token estimate.
const charsPerToken = 4.2

// Config controls a sampling run.
type Config struct {
	// PeriodicInterval is the stride of the periodic pass.
	PeriodicInterval int `json:"periodicInterval" yaml:"periodic_interval"`

	// MaxSamples caps the number of snippets returned.
	MaxSamples int `json:"maxSamples" yaml:"max_samples"`

	// DiversityThreshold is the cosine similarity at or above which a
	// candidate counts as a near-duplicate of an admitted snippet.
	DiversityThreshold float64 `json:"diversityThreshold" yaml:"diversity_threshold"`

	// TokenBudget caps the summed token estimate of non-forced snippets.
	TokenBudget int `json:"tokenBudget" yaml:"token_budget"`

	// TopicCoverage enables the per-topic pass.
	TopicCoverage bool `json:"enableTopicCoverage" yaml:"topic_coverage"`

	// AnchorPages enables the forced first/middle/last pass.
	AnchorPages bool `json:"enableAnchorPages" yaml:"anchor_pages"`

	// MinimumSnippets is the floor the fallback pass tops up to.
	MinimumSnippets int `json:"minimumSnippets" yaml:"minimum_snippets"`
}

// DefaultConfig returns the standard sampling parameters.
func DefaultConfig() Config {
	return Config{
		PeriodicInterval:   10,
		MaxSamples:         28,
		DiversityThreshold: 0.88,
		TokenBudget:        3200,
		TopicCoverage:      true,
		AnchorPages:        true,
		MinimumSnippets:    6,
	}
}

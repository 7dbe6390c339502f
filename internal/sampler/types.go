package sampler

import "context"

// Reason records why a snippet was selected.
type Reason string

const (
	// ReasonAnchor marks a forced first/middle/last chunk.
	ReasonAnchor Reason = "anchor"

	// ReasonPeriodic marks a chunk picked by the fixed-stride walk.
	ReasonPeriodic Reason = "periodic"

	// ReasonTopic marks the first chunk backing an outline topic or subtopic.
	ReasonTopic Reason = "topic"

	// ReasonFallback marks a chunk forced in to reach the minimum floor.
	ReasonFallback Reason = "fallback"
)

// Forced reports whether snippets with this reason bypass the budget and
// diversity checks.
func (r Reason) Forced() bool {
	return r == ReasonAnchor || r == ReasonFallback
}

// Snippet is a chunk retained for prompting.
type Snippet struct {
	Page int `json:"page"`

	// Content is the whitespace-normalized chunk text.
	Content string `json:"content"`

	Reason Reason `json:"reason"`

	// ApproxTokenCount is the length-based token estimate for Content.
	ApproxTokenCount int `json:"approxTokenCount"`
}

// Embedder turns text into a vector for the diversity guard.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Result is the outcome of one sampling run.
type Result struct {
	Snippets []Snippet

	// TotalTokens is the sum of ApproxTokenCount over Snippets.
	TotalTokens int

	// EmbeddingFailures counts candidates whose embedding lookup failed
	// and were therefore admitted without a diversity check.
	EmbeddingFailures int
}

// DiversityGuardDegraded reports whether any candidate skipped the
// diversity check because its embedding was unavailable.
func (r Result) DiversityGuardDegraded() bool {
	return r.EmbeddingFailures > 0
}

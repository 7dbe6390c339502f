package llm

import "context"

// Purpose labels tag each request in the event log so `docquiz llm`
// can break usage down by pipeline stage.
const (
	PurposeQuizGen = "quiz-gen"
	PurposeUnknown = "unknown"
)

type purposeKey struct{}

// WithPurpose returns a context whose LLM requests are logged under purpose.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok && p != "" {
		return p
	}
	return PurposeUnknown
}

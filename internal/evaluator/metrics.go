package evaluator

import (
	"github.com/abhisek/docquiz/internal/document"
	"github.com/abhisek/docquiz/internal/quiz"
)

// OutlineTokens collects the vocabulary of every topic and subtopic title.
func OutlineTokens(outline []document.Topic) document.TokenSet {
	set := document.TokenSet{}
	for _, t := range outline {
		for _, tok := range document.Tokenize(t.Title) {
			set[tok] = struct{}{}
		}
		for _, s := range t.Subtopics {
			for _, tok := range document.Tokenize(s.Title) {
				set[tok] = struct{}{}
			}
		}
	}
	return set
}

// CoverageRatio is matched / max(1, min(total, accepted)), capped at 1.
// It is nil when the outline contributed no tokens at all.
//
// The denominator shrinks with the accepted count, so a small batch can
// reach full coverage by mentioning only a few topics. Kept for
// compatibility with stored diagnostics; see DESIGN.md.
func CoverageRatio(matched, total, accepted int) *float64 {
	if total == 0 {
		return nil
	}
	denom := min(total, accepted)
	if denom < 1 {
		denom = 1
	}
	return quiz.Ptr(min(1, float64(matched)/float64(denom)))
}

// ApplicationRatio is the share of accepted questions that are scenarios,
// or 0 when nothing was accepted.
func ApplicationRatio(scenarios, accepted int) float64 {
	if accepted == 0 {
		return 0
	}
	return float64(scenarios) / float64(accepted)
}

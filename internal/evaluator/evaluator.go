package evaluator

import (
	"fmt"
	"strings"

	"github.com/abhisek/docquiz/internal/document"
	"github.com/abhisek/docquiz/internal/heuristics"
	"github.com/abhisek/docquiz/internal/quiz"
	"github.com/abhisek/docquiz/internal/sampler"
	"github.com/samber/lo"
)

// Config holds the evaluator thresholds.
type Config struct {
	// LiteralMinTokens is the prompt length, in tokens, from which the
	// literal-copy check applies.
	LiteralMinTokens int `yaml:"literal_min_tokens"`

	// LiteralThreshold is the Jaccard similarity to a snippet at or above
	// which a prompt counts as copied source text.
	LiteralThreshold float64 `yaml:"literal_threshold"`

	// RedundancyThreshold is the Jaccard similarity to an accepted prompt
	// at or above which a prompt counts as a duplicate.
	RedundancyThreshold float64 `yaml:"redundancy_threshold"`

	// ConceptualMinTokens is the prompt length from which a non-scenario
	// question counts as conceptual regardless of vocabulary.
	ConceptualMinTokens int `yaml:"conceptual_min_tokens"`

	// MinCoverageRatio and MinApplicationRatio are the quality floors
	// below which regeneration is recommended.
	MinCoverageRatio    float64 `yaml:"min_coverage_ratio"`
	MinApplicationRatio float64 `yaml:"min_application_ratio"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		LiteralMinTokens:    8,
		LiteralThreshold:    0.85,
		RedundancyThreshold: 0.70,
		ConceptualMinTokens: 10,
		MinCoverageRatio:    0.6,
		MinApplicationRatio: 0.4,
	}
}

// Outcome labels the decision taken for one question.
type Outcome string

const (
	OutcomeAccepted   Outcome = "accepted"
	OutcomeStructural Outcome = "structural"
	OutcomeLiteral    Outcome = "literal"
	OutcomeRedundant  Outcome = "redundant"
)

// Intent is the cognitive intent of an accepted question.
type Intent string

const (
	IntentScenario   Intent = "scenario"
	IntentConceptual Intent = "conceptual"
	IntentRecall     Intent = "recall"
)

// Evaluation is the result of judging one batch of candidates.
type Evaluation struct {
	// Accepted holds the questions that passed every filter, in input order.
	Accepted []quiz.Question

	// Fallback holds every candidate, normalized but unfiltered.
	Fallback []quiz.Question

	// Outcomes records the decision per candidate, aligned with Fallback.
	Outcomes []Outcome

	Diagnostics quiz.Diagnostics

	ShouldRegenerate bool
	Reason           string
}

// Evaluator judges generated questions for document-scope quizzes.
type Evaluator struct {
	cfg      Config
	patterns *heuristics.Patterns
}

// New creates an Evaluator using the default vocabulary.
func New(cfg Config) *Evaluator {
	return &Evaluator{cfg: cfg, patterns: heuristics.Default()}
}

// Evaluate filters and classifies candidates against the enriched document
// context. The candidates slice is not modified.
func (e *Evaluator) Evaluate(candidates []quiz.Question, dc *quiz.DocumentContext) Evaluation {
	snippetSets := lo.Map(dc.Snippets, func(s sampler.Snippet, _ int) document.TokenSet {
		return document.NewTokenSet(s.Content)
	})
	topicTokens := OutlineTokens(dc.Outline)

	ev := Evaluation{
		Fallback: make([]quiz.Question, 0, len(candidates)),
		Outcomes: make([]Outcome, 0, len(candidates)),
	}
	var (
		structural, literal, redundant int
		intents                        quiz.IntentCounts
		acceptedSets                   []document.TokenSet
		covered                        = document.TokenSet{}
	)

	for _, c := range candidates {
		q := c.Normalize()
		ev.Fallback = append(ev.Fallback, q)

		tokens := document.Tokenize(q.Prompt)
		set := document.SetOf(tokens)

		var outcome Outcome
		switch {
		case e.isStructural(q):
			outcome = OutcomeStructural
			structural++
		case e.isLiteral(tokens, set, snippetSets):
			outcome = OutcomeLiteral
			literal++
		case e.isRedundant(set, acceptedSets):
			outcome = OutcomeRedundant
			redundant++
		default:
			outcome = OutcomeAccepted
		}
		ev.Outcomes = append(ev.Outcomes, outcome)
		if outcome != OutcomeAccepted {
			continue
		}

		switch e.classify(q.Prompt, tokens) {
		case IntentScenario:
			q.Type = quiz.TypeScenario
			intents.Scenario++
		case IntentConceptual:
			q.Type = quiz.TypeMultipleChoice
			intents.Conceptual++
		default:
			q.Type = quiz.TypeMultipleChoice
			intents.Recall++
		}

		for t := range set {
			if _, ok := topicTokens[t]; ok {
				covered[t] = struct{}{}
			}
		}
		acceptedSets = append(acceptedSets, set)
		ev.Accepted = append(ev.Accepted, q)
	}

	accepted := len(ev.Accepted)
	ev.Diagnostics = quiz.Diagnostics{
		StructuralQuestionCount: quiz.Ptr(structural),
		RedundantQuestionCount:  quiz.Ptr(redundant),
		LiteralQuestionCount:    quiz.Ptr(literal),
		IntentCounts:            quiz.Ptr(intents),
		CoverageRatio:           CoverageRatio(len(covered), len(topicTokens), accepted),
		ApplicationRatio:        quiz.Ptr(ApplicationRatio(intents.Scenario, accepted)),
		HeuristicsVersion:       quiz.Ptr(e.patterns.Version),
	}

	ev.ShouldRegenerate, ev.Reason = e.decide(ev.Diagnostics, accepted, dc.QuestionCount)
	if ev.ShouldRegenerate {
		ev.Diagnostics.RegenerationReason = quiz.Ptr(ev.Reason)
	}
	return ev
}

func (e *Evaluator) isStructural(q quiz.Question) bool {
	if e.patterns.Structural.Match(q.Prompt) || e.patterns.Structural.Match(q.Explanation) ||
		e.patterns.Citation.Match(q.Prompt) {
		return true
	}
	return lo.SomeBy(q.Options.All(), e.patterns.CatchAll.Match)
}

func (e *Evaluator) isLiteral(tokens []string, set document.TokenSet, snippets []document.TokenSet) bool {
	if len(tokens) < e.cfg.LiteralMinTokens {
		return false
	}
	return lo.SomeBy(snippets, func(s document.TokenSet) bool {
		return document.Jaccard(set, s) >= e.cfg.LiteralThreshold
	})
}

func (e *Evaluator) isRedundant(set document.TokenSet, accepted []document.TokenSet) bool {
	return lo.SomeBy(accepted, func(a document.TokenSet) bool {
		return document.Jaccard(set, a) >= e.cfg.RedundancyThreshold
	})
}

func (e *Evaluator) classify(prompt string, tokens []string) Intent {
	if e.patterns.IsScenario(prompt) {
		return IntentScenario
	}
	if e.patterns.Conceptual.Match(prompt) || len(tokens) >= e.cfg.ConceptualMinTokens {
		return IntentConceptual
	}
	return IntentRecall
}

// decide applies the regeneration rules. Every failing rule contributes to
// the reason.
func (e *Evaluator) decide(d quiz.Diagnostics, accepted, target int) (bool, string) {
	var reasons []string
	if n := quiz.Value(d.StructuralQuestionCount); n > 0 {
		reasons = append(reasons, fmt.Sprintf("%d question(s) tested document structure instead of content", n))
	}
	if d.CoverageRatio != nil && *d.CoverageRatio < e.cfg.MinCoverageRatio {
		reasons = append(reasons, fmt.Sprintf("topic coverage %.2f is below %.2f", *d.CoverageRatio, e.cfg.MinCoverageRatio))
	}
	if app := quiz.Value(d.ApplicationRatio); app < e.cfg.MinApplicationRatio && accepted >= target {
		reasons = append(reasons, fmt.Sprintf("only %.0f%% of questions apply concepts to scenarios (want %.0f%%)", app*100, e.cfg.MinApplicationRatio*100))
	}
	if accepted < target {
		reasons = append(reasons, fmt.Sprintf("only %d of %d requested questions passed quality checks", accepted, target))
	}
	return len(reasons) > 0, strings.Join(reasons, "; ")
}

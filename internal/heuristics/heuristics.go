// Package heuristics holds the vocabulary lists behind every text
// heuristic in the pipeline. Lists are compiled once into case-insensitive,
// word-bounded patterns. Any change to a list must bump Version so that
// persisted diagnostics can be traced back to the vocabulary that produced
// them.
package heuristics

import (
	"regexp"
	"strings"
)

// Version identifies the vocabulary revision below.
const Version = 2

// Vocabulary lists. Each entry is a literal phrase; whitespace inside a
// phrase matches any run of whitespace.
var (
	// StructuralTerms flag questions about document layout or navigation
	// rather than content.
	StructuralTerms = []string{
		"section", "sections", "subsection", "chapter", "chapters", "heading",
		"headings", "subheading", "table of contents", "which section",
		"which chapter", "paragraph", "paragraphs", "page number", "appendix",
		"figure number", "bullet point", "title of the", "listed first", "listed last",
	}

	// CitationTerms flag prompts that ask what the source says instead of
	// what is true. Explanations cite the source routinely, so these only
	// apply to prompts.
	CitationTerms = []string{
		"according to the document", "according to the text",
		"according to the passage", "in the document", "the document states",
		"the author mentions",
	}

	// CatchAllOptions flag lazy answer options.
	CatchAllOptions = []string{
		"all of the above", "none of the above",
	}

	// ScenarioTerms flag applied, situational questions.
	ScenarioTerms = []string{
		"scenario", "suppose", "imagine", "in practice", "a team", "a company",
		"an organization", "a student", "a patient", "a customer", "a developer",
		"you are", "you need", "you notice", "what should", "what would happen",
		"which approach", "best way to", "most appropriate", "apply", "applying",
		"given a", "given that", "in this situation", "case study",
	}

	// ConceptualTerms flag causal, comparative or evaluative questions.
	ConceptualTerms = []string{
		"why", "how does", "how do", "how would", "explain", "because",
		"cause", "causes", "effect", "effects", "impact", "consequence",
		"compare", "comparison", "contrast", "difference between", "differ",
		"relationship", "advantage", "disadvantage", "trade-off", "tradeoff",
		"recommend", "recommended", "best explains", "primary reason",
		"most likely", "implication",
	}

	// ExplanatoryConnectives mark sentences that explain rather than list.
	ExplanatoryConnectives = []string{
		"for example", "for instance", "because", "therefore", "as a result",
		"such as", "which means", "in contrast", "however", "consequently",
		"this means", "due to",
	}

	// ProcessTerms mark sentences describing steps or procedures.
	ProcessTerms = []string{
		"step", "steps", "first", "second", "then", "next", "finally",
		"process", "stage", "stages", "phase", "procedure", "method",
		"workflow", "sequence",
	}
)

// Set is a compiled vocabulary.
type Set struct {
	re *regexp.Regexp
}

// Compile builds a Set matching any of terms as whole words.
func Compile(terms []string) *Set {
	alts := make([]string, 0, len(terms))
	for _, t := range terms {
		words := strings.Fields(t)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		alts = append(alts, strings.Join(words, `\s+`))
	}
	return &Set{re: regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)}
}

// Match reports whether s contains any term of the set.
func (s *Set) Match(text string) bool {
	return s.re.MatchString(text)
}

// Patterns bundles the compiled sets used by the evaluator and compressor.
type Patterns struct {
	Version     int
	Structural  *Set
	Citation    *Set
	CatchAll    *Set
	Scenario    *Set
	Conceptual  *Set
	Explanatory *Set
	Process     *Set
}

// conditionalQuestion matches an "if ... ?" construction.
var conditionalQuestion = regexp.MustCompile(`(?is)\bif\b.+\?`)

var digit = regexp.MustCompile(`\d`)

var defaultPatterns = &Patterns{
	Version:     Version,
	Structural:  Compile(StructuralTerms),
	Citation:    Compile(CitationTerms),
	CatchAll:    Compile(CatchAllOptions),
	Scenario:    Compile(ScenarioTerms),
	Conceptual:  Compile(ConceptualTerms),
	Explanatory: Compile(ExplanatoryConnectives),
	Process:     Compile(ProcessTerms),
}

// Default returns the compiled default vocabulary. The value is shared and
// must not be modified.
func Default() *Patterns {
	return defaultPatterns
}

// IsScenario reports whether a prompt reads as an applied scenario.
func (p *Patterns) IsScenario(prompt string) bool {
	return p.Scenario.Match(prompt) || conditionalQuestion.MatchString(prompt)
}

// HasDigit reports whether s contains a decimal digit.
func HasDigit(s string) bool {
	return digit.MatchString(s)
}

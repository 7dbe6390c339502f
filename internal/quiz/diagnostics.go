package quiz

// IntentCounts tallies accepted questions by cognitive intent.
type IntentCounts struct {
	Scenario   int `json:"scenario"`
	Conceptual int `json:"conceptual"`
	Recall     int `json:"recall"`
}

// Diagnostics aggregates sampling and evaluation counters. Every field is
// optional: nil means "not computed", which Merge treats differently from
// a zero value.
type Diagnostics struct {
	ApproxTokenCount        *int          `json:"approxTokenCount,omitempty"`
	SnippetCount            *int          `json:"snippetCount,omitempty"`
	StructuralQuestionCount *int          `json:"structuralQuestionCount,omitempty"`
	RedundantQuestionCount  *int          `json:"redundantQuestionCount,omitempty"`
	LiteralQuestionCount    *int          `json:"literalQuestionCount,omitempty"`
	IntentCounts            *IntentCounts `json:"intentCounts,omitempty"`
	CoverageRatio           *float64      `json:"coverageRatio,omitempty"`
	ApplicationRatio        *float64      `json:"applicationRatio,omitempty"`

	DiversityGuardDegraded *bool   `json:"diversityGuardDegraded,omitempty"`
	EmbeddingFailures      *int    `json:"embeddingFailures,omitempty"`
	Attempts               *int    `json:"attempts,omitempty"`
	RegenerationReason     *string `json:"regenerationReason,omitempty"`
	HeuristicsVersion      *int    `json:"heuristicsVersion,omitempty"`
}

// Merge overlays later on d: each field takes later's value when it is set
// and keeps d's otherwise.
func (d Diagnostics) Merge(later Diagnostics) Diagnostics {
	return Diagnostics{
		ApproxTokenCount:        coalesce(later.ApproxTokenCount, d.ApproxTokenCount),
		SnippetCount:            coalesce(later.SnippetCount, d.SnippetCount),
		StructuralQuestionCount: coalesce(later.StructuralQuestionCount, d.StructuralQuestionCount),
		RedundantQuestionCount:  coalesce(later.RedundantQuestionCount, d.RedundantQuestionCount),
		LiteralQuestionCount:    coalesce(later.LiteralQuestionCount, d.LiteralQuestionCount),
		IntentCounts:            coalesce(later.IntentCounts, d.IntentCounts),
		CoverageRatio:           coalesce(later.CoverageRatio, d.CoverageRatio),
		ApplicationRatio:        coalesce(later.ApplicationRatio, d.ApplicationRatio),
		DiversityGuardDegraded:  coalesce(later.DiversityGuardDegraded, d.DiversityGuardDegraded),
		EmbeddingFailures:       coalesce(later.EmbeddingFailures, d.EmbeddingFailures),
		Attempts:                coalesce(later.Attempts, d.Attempts),
		RegenerationReason:      coalesce(later.RegenerationReason, d.RegenerationReason),
		HeuristicsVersion:       coalesce(later.HeuristicsVersion, d.HeuristicsVersion),
	}
}

func coalesce[T any](later, earlier *T) *T {
	if later != nil {
		return later
	}
	return earlier
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Value dereferences p, returning the zero value for nil.
func Value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

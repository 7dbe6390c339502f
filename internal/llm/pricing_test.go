package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"gpt-4o-mini", &ModelCost{0.15, 0.6}},
		{"gpt-4o-mini-2024-07-18", &ModelCost{0.15, 0.6}},
		{"gpt-4o-2024-11-20", &ModelCost{2.5, 10}},
		{"claude-haiku-4-5-20251001", &ModelCost{1, 5}},
		{"openai/gpt-4.1-nano", &ModelCost{0.1, 0.4}},
		{"google/gemini-2.5-flash-lite", &ModelCost{0.1, 0.4}},
		{"gemini-3-flash-preview", &ModelCost{0.5, 3}},
		{"mock", nil},
		{"gpt-4oish", nil},
	}
	for _, tt := range tests {
		got := LookupCost(tt.model)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("LookupCost(%q) = %+v, want nil", tt.model, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("LookupCost(%q) = %v, want %+v", tt.model, got, *tt.want)
		}
	}
}

func TestModelCost_Cost(t *testing.T) {
	// A five question batch: roughly 6k prompt tokens, 1.5k answer tokens.
	got := ModelCost{InputPerMTok: 0.15, OutputPerMTok: 0.6}.Cost(6000, 1500)
	if math.Abs(got-0.0018) > 1e-9 {
		t.Fatalf("Cost = %f, want 0.0018", got)
	}
}

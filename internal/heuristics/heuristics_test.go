package heuristics

import "testing"

func TestDefaultPatterns(t *testing.T) {
	p := Default()
	tests := []struct {
		name string
		set  *Set
		text string
		want bool
	}{
		{"structural", p.Structural, "Which chapter introduces the Krebs cycle?", true},
		{"structural phrase spacing", p.Structural, "What is listed   first in the table?", true},
		{"structural word boundary", p.Structural, "How do cells intersect with tissue?", false},
		{"citation", p.Citation, "According to the passage, what limits photosynthesis?", true},
		{"citation not structural", p.Structural, "As the document states, chlorophyll absorbs red and blue light.", false},
		{"catch-all", p.CatchAll, "All of the above", true},
		{"conceptual", p.Conceptual, "Why does ATP yield drop without oxygen?", true},
		{"conceptual hyphen", p.Conceptual, "What is the trade-off of anaerobic respiration?", true},
		{"not conceptual", p.Conceptual, "What is ATP?", false},
		{"explanatory", p.Explanatory, "Glucose is split; as a result, pyruvate forms.", true},
		{"process", p.Process, "The final stage occurs in the mitochondria.", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.Match(tt.text); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
	if p.Version != Version {
		t.Errorf("Version = %d, want %d", p.Version, Version)
	}
}

func TestIsScenario(t *testing.T) {
	p := Default()
	tests := map[string]bool{
		"A patient presents with low oxygen saturation. What should the nurse check first?": true,
		"If a plant is kept in darkness for a week, what happens to its starch stores?":      true,
		"Suppose the stomata close at noon.":                                                  true,
		"What pigment absorbs red light?":                                                     false,
	}
	for prompt, want := range tests {
		if got := p.IsScenario(prompt); got != want {
			t.Errorf("IsScenario(%q) = %v, want %v", prompt, got, want)
		}
	}
}

func TestHasDigit(t *testing.T) {
	if !HasDigit("Photosystem II absorbs at 680 nm") || HasDigit("Photosystem two") {
		t.Fatal("HasDigit misclassified")
	}
}

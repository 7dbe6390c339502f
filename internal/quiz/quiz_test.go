package quiz

import (
	"encoding/json"
	"testing"
)

func TestRawQuestion_NormalizeObjectOptions(t *testing.T) {
	raw := RawQuestion{
		Prompt:      "  What drives photosynthesis?  ",
		Options:     json.RawMessage(`{"a":" Light ","b":"Heat","c":"Wind","d":"Sound"}`),
		Correct:     "b)",
		SourcePages: json.RawMessage(`[3, 4]`),
	}
	q := raw.Normalize()
	if q.Prompt != "What drives photosynthesis?" {
		t.Errorf("prompt not trimmed: %q", q.Prompt)
	}
	if q.Options.A != "Light" || q.Options.D != "Sound" {
		t.Errorf("unexpected options: %+v", q.Options)
	}
	if q.Correct != LetterB {
		t.Errorf("correct = %q, want B", q.Correct)
	}
	if len(q.SourcePages) != 2 || q.SourcePages[1] != 4 {
		t.Errorf("unexpected source pages: %v", q.SourcePages)
	}
}

func TestRawQuestion_NormalizeRelabelsOptions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Options
	}{
		{"array", `["one","two","three","four","five"]`, Options{"one", "two", "three", "four"}},
		{"short array", `["one","two"]`, Options{"one", "two", "", ""}},
		{"numbered keys", `{"1":"one","2":"two","3":"three","4":"four"}`, Options{"one", "two", "three", "four"}},
		{"mixed keys", `{"A":"one","x":"other","C":"three"}`, Options{"one", "other", "three", ""}},
		{"null", `null`, Options{}},
		{"missing", ``, Options{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := RawQuestion{Options: json.RawMessage(tt.raw)}.Normalize()
			if q.Options != tt.want {
				t.Errorf("got %+v, want %+v", q.Options, tt.want)
			}
		})
	}
}

func TestRawQuestion_NormalizeCorrectLetter(t *testing.T) {
	tests := map[string]Letter{
		"A": LetterA, "d": LetterD, " C. ": LetterC, "Option B": LetterB,
		"E": LetterA, "": LetterA, "Both": LetterA, "2": LetterA,
	}
	for in, want := range tests {
		if got := (RawQuestion{Correct: in}).Normalize().Correct; got != want {
			t.Errorf("correct %q → %q, want %q", in, got, want)
		}
	}
}

func TestRawQuestion_NormalizeSourcePages(t *testing.T) {
	tests := map[string]int{
		`[1,2,3]`: 3, `"page 3"`: 0, `null`: 0, ``: 0, `[2.0]`: 1, `{"p":1}`: 0,
	}
	for in, want := range tests {
		q := RawQuestion{SourcePages: json.RawMessage(in)}.Normalize()
		if q.SourcePages == nil {
			t.Errorf("source pages %q decoded to nil", in)
		}
		if len(q.SourcePages) != want {
			t.Errorf("source pages %q → %v, want %d entries", in, q.SourcePages, want)
		}
	}
}

func TestFinalize_AssignsIDsAndClamps(t *testing.T) {
	in := []Question{{ID: "keep"}, {}, {}, {}}
	out := Finalize(in, 3)
	if len(out) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(out))
	}
	if out[0].ID != "keep" || out[1].ID != "q2" || out[2].ID != "q3" {
		t.Errorf("unexpected ids: %q %q %q", out[0].ID, out[1].ID, out[2].ID)
	}
	if in[1].ID != "" {
		t.Error("Finalize modified its input")
	}
	if out[1].Correct != LetterA || out[1].SourcePages == nil {
		t.Errorf("expected normalized defaults, got %+v", out[1])
	}
}

func TestFinalize_SkipsIDsAlreadyUsed(t *testing.T) {
	out := Finalize([]Question{{ID: "q2"}, {}, {}}, 0)
	got := []string{out[0].ID, out[1].ID, out[2].ID}
	want := []string{"q2", "q3", "q4"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

func TestFinalize_Empty(t *testing.T) {
	out := Finalize(nil, 5)
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", out)
	}
}

func TestDiagnostics_MergeLaterWins(t *testing.T) {
	earlier := Diagnostics{
		ApproxTokenCount: Ptr(1200),
		SnippetCount:     Ptr(8),
		CoverageRatio:    Ptr(0.5),
	}
	later := Diagnostics{
		CoverageRatio:           Ptr(0.9),
		StructuralQuestionCount: Ptr(0),
	}
	got := earlier.Merge(later)
	if Value(got.ApproxTokenCount) != 1200 || Value(got.SnippetCount) != 8 {
		t.Errorf("earlier values lost: %+v", got)
	}
	if Value(got.CoverageRatio) != 0.9 {
		t.Errorf("coverage = %v, want 0.9", Value(got.CoverageRatio))
	}
	if got.StructuralQuestionCount == nil || *got.StructuralQuestionCount != 0 {
		t.Error("explicit zero in later should win")
	}
	if got.ApplicationRatio != nil {
		t.Error("unset on both sides should stay nil")
	}
}

func TestTitleAndAttempts(t *testing.T) {
	tests := []struct {
		ctx      Context
		title    string
		attempts int
	}{
		{&SubtopicContext{SubtopicName: "Light reactions"}, "Quiz: Light reactions", 1},
		{&TopicContext{TopicName: "Photosynthesis"}, "Quiz: Photosynthesis", 1},
		{&DocumentContext{Base: Base{DocumentTitle: "Biology 101"}}, "Quiz: Biology 101", 2},
	}
	for _, tt := range tests {
		if got := Title(tt.ctx); got != tt.title {
			t.Errorf("Title = %q, want %q", got, tt.title)
		}
		if got := MaxAttempts(tt.ctx); got != tt.attempts {
			t.Errorf("MaxAttempts(%s) = %d, want %d", tt.ctx.Scope(), got, tt.attempts)
		}
	}
}

func TestWithRawContent_ReturnsCopy(t *testing.T) {
	orig := &DocumentContext{Base: Base{DocumentTitle: "Doc"}}
	next := orig.WithRawContent("Page 1: hello")
	if orig.RawContent != "" {
		t.Fatal("original context was mutated")
	}
	if next.Common().RawContent != "Page 1: hello" {
		t.Fatalf("raw content not attached: %q", next.Common().RawContent)
	}
}

func TestContextCodecRoundTrip(t *testing.T) {
	orig := &TopicContext{
		Base:      Base{DocumentIDs: []string{"doc-1"}, QuestionCount: 4, Pages: []int{2, 3}},
		TopicName: "Cells",
	}
	data, err := MarshalContext(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := UnmarshalContext(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	tc, ok := got.(*TopicContext)
	if !ok {
		t.Fatalf("expected *TopicContext, got %T", got)
	}
	if tc.TopicName != "Cells" || tc.QuestionCount != 4 || len(tc.Pages) != 2 {
		t.Errorf("unexpected decoded context: %+v", tc)
	}
}

func TestUnmarshalContext_UnknownScope(t *testing.T) {
	if _, err := UnmarshalContext([]byte(`{"scope":"chapter","context":{}}`)); err == nil {
		t.Fatal("expected error for unknown scope")
	}
}

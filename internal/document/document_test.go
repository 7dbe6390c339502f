package document

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

var cellOutline = []Topic{
	{Title: "Cell Structure", Pages: []int{1, 2}, Subtopics: []Subtopic{
		{Title: "Membranes", Pages: []int{2}},
	}},
	{Title: "Cell Division", Pages: []int{5, 4}, Subtopics: []Subtopic{
		{Title: "Mitosis", Pages: []int{4, 6}},
	}},
}

func TestSortByPage_StableAndCopied(t *testing.T) {
	in := []Chunk{{Page: 3, Content: "c"}, {Page: 1, Content: "a1"}, {Page: 1, Content: "a2"}}
	out := SortByPage(in)

	got := []string{out[0].Content, out[1].Content, out[2].Content}
	if !slices.Equal(got, []string{"a1", "a2", "c"}) {
		t.Fatalf("order = %v", got)
	}
	if in[0].Page != 3 {
		t.Fatal("input was reordered")
	}
}

func TestPageHelpers(t *testing.T) {
	chunks := []Chunk{{Page: 4, Content: "x"}, {Page: 2, Content: "y"}, {Page: 4, Content: "z"}, {Page: 9}}

	if got := FilterPages(chunks, []int{4}); len(got) != 2 || got[1].Content != "z" {
		t.Errorf("FilterPages = %+v", got)
	}
	if got := FilterPages(chunks, nil); len(got) != 0 {
		t.Errorf("empty page list matched %d chunks", len(got))
	}
	if got := FirstPerPage(chunks); len(got) != 3 || got[0].Content != "x" {
		t.Errorf("FirstPerPage = %+v", got)
	}
	if got := Pages(chunks); !slices.Equal(got, []int{2, 4, 9}) {
		t.Errorf("Pages = %v", got)
	}
	if got := AllPages(cellOutline); !slices.Equal(got, []int{1, 2, 4, 5, 6}) {
		t.Errorf("AllPages = %v", got)
	}
}

func TestFindTopicAndSubtopic(t *testing.T) {
	if tp, ok := FindTopic(cellOutline, "  cell division "); !ok || tp.Title != "Cell Division" {
		t.Fatalf("FindTopic = %+v, %v", tp, ok)
	}
	if _, ok := FindTopic(cellOutline, "Genetics"); ok {
		t.Fatal("found a topic that is not in the outline")
	}
	if s, ok := FindSubtopic(cellOutline, "Cell Division", "MITOSIS"); !ok || !slices.Equal(s.Pages, []int{4, 6}) {
		t.Fatalf("FindSubtopic = %+v, %v", s, ok)
	}
	if _, ok := FindSubtopic(cellOutline, "Cell Structure", "Mitosis"); ok {
		t.Fatal("subtopic matched under the wrong topic")
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("The cell's membrane, which is 7nm thick, controls transport of ions!")
	want := []string{"cell", "membrane", "7nm", "thick", "controls", "transport", "ions"}
	if !slices.Equal(got, want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
}

func TestJaccard(t *testing.T) {
	a := NewTokenSet("chlorophyll absorbs red light")
	b := NewTokenSet("chlorophyll reflects green light")
	if got := Jaccard(a, b); got != 2.0/6.0 {
		t.Errorf("Jaccard = %v, want 1/3", got)
	}
	if got := Jaccard(a, a); got != 1 {
		t.Errorf("Jaccard(a, a) = %v", got)
	}
	if got := Jaccard(TokenSet{}, TokenSet{}); got != 0 {
		t.Errorf("Jaccard of empty sets = %v", got)
	}
}

func TestTextHelpers(t *testing.T) {
	if got := NormalizeWhitespace("  light \n\t reactions  "); got != "light reactions" {
		t.Errorf("NormalizeWhitespace = %q", got)
	}
	tests := map[string]string{
		"Cell Division":         "cell-division",
		"  DNA -- Replication!": "dna-replication",
		"Über Zellen":           "über-zellen",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Truncate("mitochondrien", 5); got != "mitoc" {
		t.Errorf("Truncate = %q", got)
	}
	if Len("Zellkern ü") != 10 {
		t.Errorf("Len counts bytes, not runes")
	}
}

func TestLoadChunksAndOutline(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	chunks, err := LoadChunks(write("chunks.json", `[{"page":1,"content":"Cells are the unit of life."}]`))
	if err != nil || len(chunks) != 1 || chunks[0].Page != 1 {
		t.Fatalf("LoadChunks json = %+v, %v", chunks, err)
	}

	outline, err := LoadOutline(write("outline.YML", `
- title: Cell Division
  pages: [4, 5]
  subtopics:
    - title: Mitosis
      pages: [4]
`))
	if err != nil {
		t.Fatalf("LoadOutline yaml: %v", err)
	}
	if len(outline) != 1 || outline[0].Subtopics[0].Title != "Mitosis" {
		t.Fatalf("outline = %+v", outline)
	}

	if _, err := LoadChunks(write("broken.json", `{"page":`)); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := LoadOutline(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

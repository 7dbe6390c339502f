package document

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Chunk is a page-tagged unit of extracted document text. Chunks are
// produced by an external ingestion step and are never mutated here.
type Chunk struct {
	Page    int    `json:"page" yaml:"page"`
	Content string `json:"content" yaml:"content"`
}

// Topic is an outline entry covering a set of pages.
type Topic struct {
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Pages       []int      `json:"pages" yaml:"pages"`
	Subtopics   []Subtopic `json:"subtopics,omitempty" yaml:"subtopics,omitempty"`
}

// Subtopic is a nested outline entry under a Topic.
type Subtopic struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Pages       []int  `json:"pages" yaml:"pages"`
}

// SortByPage returns a copy of chunks ordered by page. Chunks sharing a
// page keep their input order.
func SortByPage(chunks []Chunk) []Chunk {
	out := make([]Chunk, len(chunks))
	copy(out, chunks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Page < out[j].Page })
	return out
}

// FilterPages returns the chunks whose page is in pages, preserving order.
// An empty page list matches nothing.
func FilterPages(chunks []Chunk, pages []int) []Chunk {
	set := PageSet(pages)
	return lo.Filter(chunks, func(c Chunk, _ int) bool {
		_, ok := set[c.Page]
		return ok
	})
}

// PageSet builds a lookup set from a page list.
func PageSet(pages []int) map[int]struct{} {
	set := make(map[int]struct{}, len(pages))
	for _, p := range pages {
		set[p] = struct{}{}
	}
	return set
}

// FirstPerPage keeps the first chunk seen for every page, in input order.
func FirstPerPage(chunks []Chunk) []Chunk {
	return lo.UniqBy(chunks, func(c Chunk) int { return c.Page })
}

// Pages returns the sorted distinct pages covered by chunks.
func Pages(chunks []Chunk) []int {
	pages := lo.Uniq(lo.Map(chunks, func(c Chunk, _ int) int { return c.Page }))
	sort.Ints(pages)
	return pages
}

// AllPages returns the sorted distinct pages referenced anywhere in the
// outline, subtopics included.
func AllPages(outline []Topic) []int {
	var pages []int
	for _, t := range outline {
		pages = append(pages, t.Pages...)
		for _, s := range t.Subtopics {
			pages = append(pages, s.Pages...)
		}
	}
	pages = lo.Uniq(pages)
	sort.Ints(pages)
	return pages
}

// FindTopic looks up a topic by title, case-insensitively.
func FindTopic(outline []Topic, title string) (Topic, bool) {
	return lo.Find(outline, func(t Topic) bool {
		return strings.EqualFold(strings.TrimSpace(t.Title), strings.TrimSpace(title))
	})
}

// FindSubtopic looks up a subtopic by title within the named topic.
func FindSubtopic(outline []Topic, topic, subtopic string) (Subtopic, bool) {
	t, ok := FindTopic(outline, topic)
	if !ok {
		return Subtopic{}, false
	}
	return lo.Find(t.Subtopics, func(s Subtopic) bool {
		return strings.EqualFold(strings.TrimSpace(s.Title), strings.TrimSpace(subtopic))
	})
}

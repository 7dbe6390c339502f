package compress

import (
	"regexp"
	"sort"
	"strings"

	"github.com/abhisek/docquiz/internal/document"
	"github.com/samber/lo"
)

// Kind distinguishes what a Summary was built from.
type Kind string

const (
	KindTopic    Kind = "topic"
	KindSubtopic Kind = "subtopic"

	// KindDocument marks the whole-document fallback summary.
	KindDocument Kind = "document"
)

// DocumentSummaryID is the TopicID of the whole-document fallback summary.
const DocumentSummaryID = "document"

// Summary is an extractive digest of one topic or subtopic.
type Summary struct {
	TopicID       string `json:"topicId"`
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	Pages         []int  `json:"pages"`
	Kind          Kind   `json:"kind"`
	ParentTopicID string `json:"parentTopicId,omitempty"`
}

// Config bounds the extractive summaries.
type Config struct {
	MaxSentences      int `json:"maxSentences" yaml:"max_sentences"`
	MaxCharacters     int `json:"maxCharacters" yaml:"max_characters"`
	MinSentenceLength int `json:"minSentenceLength" yaml:"min_sentence_length"`
	MaxSentenceLength int `json:"maxSentenceLength" yaml:"max_sentence_length"`
}

// DefaultConfig returns the standard compression parameters.
func DefaultConfig() Config {
	return Config{
		MaxSentences:      4,
		MaxCharacters:     600,
		MinSentenceLength: 40,
		MaxSentenceLength: 260,
	}
}

// Compressor builds per-topic extractive summaries.
type Compressor struct {
	cfg Config
}

// New creates a Compressor.
func New(cfg Config) *Compressor {
	return &Compressor{cfg: cfg}
}

// Compress summarizes every topic and subtopic of the outline that has at
// least one backing chunk. When none does, a single whole-document summary
// is returned instead (or nothing, if there are no chunks at all).
func (c *Compressor) Compress(chunks []document.Chunk, outline []document.Topic) []Summary {
	sorted := document.FirstPerPage(document.SortByPage(chunks))

	var out []Summary
	for _, t := range outline {
		topicID := document.Slug(t.Title)
		if s, ok := c.summarize(sorted, t.Pages); ok {
			out = append(out, Summary{
				TopicID: topicID,
				Title:   t.Title,
				Summary: s,
				Pages:   t.Pages,
				Kind:    KindTopic,
			})
		}
		for _, sub := range t.Subtopics {
			if s, ok := c.summarize(sorted, sub.Pages); ok {
				out = append(out, Summary{
					TopicID:       topicID + "/" + document.Slug(sub.Title),
					Title:         sub.Title,
					Summary:       s,
					Pages:         sub.Pages,
					Kind:          KindSubtopic,
					ParentTopicID: topicID,
				})
			}
		}
	}

	if len(out) == 0 && len(sorted) > 0 {
		pages := document.Pages(sorted)
		if s, ok := c.summarize(sorted, pages); ok {
			out = append(out, Summary{
				TopicID: DocumentSummaryID,
				Title:   "Document overview",
				Summary: s,
				Pages:   pages,
				Kind:    KindDocument,
			})
		}
	}
	return out
}

func (c *Compressor) summarize(chunks []document.Chunk, pages []int) (string, bool) {
	backing := document.FilterPages(chunks, pages)
	if len(backing) == 0 {
		return "", false
	}
	text := strings.Join(lo.Map(backing, func(ch document.Chunk, _ int) string { return ch.Content }), " ")
	text = document.NormalizeWhitespace(text)
	if text == "" {
		return "", false
	}
	return c.Summarize(text), true
}

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

// SplitSentences breaks text on .?! boundaries. Trailing text without a
// terminator becomes the final sentence.
func SplitSentences(text string) []string {
	var out []string
	end := 0
	for _, loc := range sentencePattern.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[loc[0]:loc[1]]); s != "" {
			out = append(out, s)
		}
		end = loc[1]
	}
	if rest := strings.TrimSpace(text[end:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

type scored struct {
	index int
	text  string
	score float64
}

// Summarize extracts the top-scoring sentences of already-normalized text
// and clamps the result to MaxCharacters.
func (c *Compressor) Summarize(text string) string {
	sentences := SplitSentences(text)
	var candidates []scored
	for i, s := range sentences {
		if document.Len(s) < c.cfg.MinSentenceLength {
			continue
		}
		candidates = append(candidates, scored{index: i, text: s, score: c.score(s, i)})
	}
	if len(candidates) == 0 {
		return c.truncate(text)
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if c.cfg.MaxSentences > 0 && len(candidates) > c.cfg.MaxSentences {
		candidates = candidates[:c.cfg.MaxSentences]
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].index < candidates[j].index })

	joined := strings.Join(lo.Map(candidates, func(s scored, _ int) string { return s.text }), " ")
	return c.truncate(joined)
}

// truncate clamps s to MaxCharacters, cutting at the last sentence boundary
// past 60% of the budget when there is one.
func (c *Compressor) truncate(s string) string {
	max := c.cfg.MaxCharacters
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	cut := r[:max]
	floor := int(float64(max) * 0.6)
	for i := len(cut) - 1; i >= floor; i-- {
		if cut[i] == '.' || cut[i] == '!' || cut[i] == '?' {
			return strings.TrimSpace(string(cut[:i+1]))
		}
	}
	return strings.TrimSpace(string(cut))
}

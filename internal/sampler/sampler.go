package sampler

import (
	"context"

	"github.com/abhisek/docquiz/internal/document"
	"github.com/abhisek/docquiz/internal/logger"
)

// Sampler selects a diverse, budget-constrained subset of chunks.
// A Sampler holds no per-run state and may be shared.
type Sampler struct {
	embedder Embedder
	cfg      Config
	log      *logger.Logger
}

// New creates a Sampler. A nil embedder disables the diversity guard.
func New(embedder Embedder, cfg Config, log *logger.Logger) *Sampler {
	return &Sampler{embedder: embedder, cfg: cfg, log: logger.OrNop(log)}
}

// candidate is a chunk with its normalized content precomputed.
type candidate struct {
	page    int
	content string
	tokens  int
}

// run carries the mutable state of a single Sample call.
type run struct {
	s          *Sampler
	ctx        context.Context
	candidates []candidate
	chosen     map[int]bool // candidate index → selected
	pages      map[int]bool // page → selected
	embeddings [][]float32
	result     Result
}

// Sample runs the anchor, periodic, topic-coverage and fallback passes over
// chunks and returns the selected snippets. Chunks are sorted by page first;
// the outline is only consulted by the topic-coverage pass.
func (s *Sampler) Sample(ctx context.Context, chunks []document.Chunk, outline []document.Topic) Result {
	sorted := document.SortByPage(chunks)
	r := &run{
		s:          s,
		ctx:        ctx,
		candidates: make([]candidate, len(sorted)),
		chosen:     make(map[int]bool),
		pages:      make(map[int]bool),
	}
	for i, c := range sorted {
		content := document.NormalizeWhitespace(c.Content)
		r.candidates[i] = candidate{page: c.Page, content: content, tokens: EstimateTokens(content)}
	}

	if len(r.candidates) == 0 {
		return r.result
	}

	if s.cfg.AnchorPages {
		r.anchorPass()
	}
	r.periodicPass()
	if s.cfg.TopicCoverage && len(outline) > 0 {
		r.topicPass(outline)
	}
	if len(r.result.Snippets) < s.cfg.MinimumSnippets {
		r.fallbackPass()
	}

	if s.cfg.MaxSamples >= 0 && len(r.result.Snippets) > s.cfg.MaxSamples {
		r.result.Snippets = r.result.Snippets[:s.cfg.MaxSamples]
	}
	r.result.TotalTokens = 0
	for _, sn := range r.result.Snippets {
		r.result.TotalTokens += sn.ApproxTokenCount
	}
	return r.result
}

func (r *run) anchorPass() {
	last := len(r.candidates) - 1
	mid := len(r.candidates) / 2

	r.force(0, ReasonAnchor)
	if r.candidates[mid].page != r.candidates[0].page && r.candidates[mid].page != r.candidates[last].page {
		r.force(mid, ReasonAnchor)
	}
	r.force(last, ReasonAnchor)
}

func (r *run) periodicPass() {
	stride := r.s.cfg.PeriodicInterval
	if stride <= 0 {
		stride = 1
	}
	for i := 0; i < len(r.candidates); i += stride {
		if r.full() {
			return
		}
		r.admit(i, ReasonPeriodic)
	}
}

func (r *run) topicPass(outline []document.Topic) {
	for _, t := range outline {
		if r.full() {
			return
		}
		r.admitFirstOnPages(t.Pages)
		for _, sub := range t.Subtopics {
			if r.full() {
				return
			}
			r.admitFirstOnPages(sub.Pages)
		}
		// Saturated: the floor is met and the budget is spent.
		if len(r.result.Snippets) >= r.s.cfg.MinimumSnippets && r.tokens() >= r.s.cfg.TokenBudget {
			return
		}
	}
}

func (r *run) admitFirstOnPages(pages []int) {
	set := document.PageSet(pages)
	for i, c := range r.candidates {
		if _, ok := set[c.page]; ok {
			r.admit(i, ReasonTopic)
			return
		}
	}
}

func (r *run) fallbackPass() {
	for i := range r.candidates {
		if len(r.result.Snippets) >= r.s.cfg.MinimumSnippets {
			return
		}
		if r.chosen[i] || document.Len(r.candidates[i].content) < MinSnippetLength {
			continue
		}
		r.add(i, ReasonFallback)
	}
}

// force admits an anchor regardless of budget and diversity. Pages already
// represented are skipped so the anchors never duplicate each other.
func (r *run) force(i int, reason Reason) {
	c := r.candidates[i]
	if r.chosen[i] || r.pages[c.page] || document.Len(c.content) < MinSnippetLength {
		return
	}
	r.add(i, reason)
}

// admit applies every constraint to a non-forced candidate.
func (r *run) admit(i int, reason Reason) bool {
	c := r.candidates[i]
	switch {
	case r.chosen[i], r.pages[c.page]:
		return false
	case document.Len(c.content) < MinSnippetLength:
		return false
	case r.full():
		return false
	case r.tokens()+c.tokens > r.s.cfg.TokenBudget:
		return false
	}
	if !r.diverse(c) {
		return false
	}
	r.add(i, reason)
	return true
}

// diverse embeds the candidate and compares it with the embeddings of
// earlier non-forced admissions. Anchors are never embedded, so they are
// not part of the set. The candidate's embedding joins the set when it
// passes.
func (r *run) diverse(c candidate) bool {
	if r.s.embedder == nil {
		return true
	}
	vec, err := r.s.embedder.Embed(r.ctx, c.content)
	if err != nil {
		r.result.EmbeddingFailures++
		r.s.log.Warn("embedding failed, skipping diversity check", "page", c.page, "error", err)
		return true
	}
	for _, prev := range r.embeddings {
		if cosine(vec, prev) >= r.s.cfg.DiversityThreshold {
			return false
		}
	}
	r.embeddings = append(r.embeddings, vec)
	return true
}

func (r *run) add(i int, reason Reason) {
	c := r.candidates[i]
	r.chosen[i] = true
	r.pages[c.page] = true
	r.result.Snippets = append(r.result.Snippets, Snippet{
		Page:             c.page,
		Content:          c.content,
		Reason:           reason,
		ApproxTokenCount: c.tokens,
	})
	r.result.TotalTokens += c.tokens
}

func (r *run) tokens() int {
	return r.result.TotalTokens
}

func (r *run) full() bool {
	return len(r.result.Snippets) >= r.s.cfg.MaxSamples
}

// Package assembler turns a quiz context and the document's chunks into the
// enriched context and raw prompt content the generator works from.
package assembler

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/abhisek/docquiz/internal/compress"
	"github.com/abhisek/docquiz/internal/document"
	"github.com/abhisek/docquiz/internal/logger"
	"github.com/abhisek/docquiz/internal/quiz"
	"github.com/abhisek/docquiz/internal/sampler"
)

const (
	// MaxFallbackTopics caps how many topics the aggregation fallback uses.
	MaxFallbackTopics = 8

	// MaxFallbackChars clamps each aggregated topic or description.
	MaxFallbackChars = 400
)

// Assembler builds prompt content for every scope.
type Assembler struct {
	embedder sampler.Embedder
	rng      *rand.Rand
	log      *logger.Logger
}

// New creates an Assembler. The embedder feeds the sampler's diversity guard
// and may be nil. rng drives the topic subsample of the aggregation
// fallback; a nil rng is seeded from the clock.
func New(embedder sampler.Embedder, rng *rand.Rand, log *logger.Logger) *Assembler {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &Assembler{embedder: embedder, rng: rng, log: logger.OrNop(log)}
}

// Assemble returns a copy of qc enriched with prompt content, along with
// that content. An empty string means no content backs the request.
func (a *Assembler) Assemble(ctx context.Context, qc quiz.Context, chunks []document.Chunk) (quiz.Context, string) {
	switch c := qc.(type) {
	case *quiz.SubtopicContext:
		return a.assemblePages(c, chunks)
	case *quiz.TopicContext:
		return a.assemblePages(c, chunks)
	case *quiz.DocumentContext:
		return a.assembleDocument(ctx, c, chunks)
	}
	panic(fmt.Sprintf("assembler: unknown context type %T", qc))
}

func (a *Assembler) assemblePages(qc quiz.Context, chunks []document.Chunk) (quiz.Context, string) {
	base := qc.Common()
	if strings.TrimSpace(base.RawContent) != "" {
		return qc, base.RawContent
	}
	scoped := document.FilterPages(document.SortByPage(chunks), base.Pages)
	content := RenderPages(scoped)
	if content == "" {
		return qc, ""
	}
	return qc.WithRawContent(content), content
}

func (a *Assembler) assembleDocument(ctx context.Context, dc *quiz.DocumentContext, chunks []document.Chunk) (quiz.Context, string) {
	cfg := dc.GenerationConfig.OrDefault()

	sampled := sampler.New(a.embedder, cfg.Sampling, a.log).Sample(ctx, chunks, dc.Outline)
	summaries := compress.New(cfg.Compression).Compress(chunks, dc.Outline)

	out := dc.Clone()
	out.GenerationConfig = cfg
	out.ConfigVersion = cfg.Version
	out.Snippets = sampled.Snippets
	out.Summaries = summaries
	out.Diagnostics = out.Diagnostics.Merge(quiz.Diagnostics{
		ApproxTokenCount:       quiz.Ptr(sampled.TotalTokens),
		SnippetCount:           quiz.Ptr(len(sampled.Snippets)),
		DiversityGuardDegraded: quiz.Ptr(sampled.DiversityGuardDegraded()),
		EmbeddingFailures:      quiz.Ptr(sampled.EmbeddingFailures),
	})

	content := RenderSnippets(sampled.Snippets)
	if content == "" {
		a.log.Warn("sampling produced no content, aggregating outline",
			"document", dc.DocumentTitle, "chunks", len(chunks), "topics", len(dc.Outline))
		content = a.aggregate(dc)
	}
	out.RawContent = content

	a.log.Debug("assembled document context",
		"document", dc.DocumentTitle,
		"snippets", len(sampled.Snippets),
		"summaries", len(summaries),
		"approx_tokens", sampled.TotalTokens)
	return out, content
}

// aggregate is the last-resort content built from the description and a
// subsample of the outline.
func (a *Assembler) aggregate(dc *quiz.DocumentContext) string {
	var parts []string
	if d := strings.TrimSpace(dc.Description); d != "" {
		parts = append(parts, document.Truncate(document.NormalizeWhitespace(d), MaxFallbackChars))
	}
	for _, t := range a.subsample(dc.Outline) {
		text := t.Title
		if d := strings.TrimSpace(t.Description); d != "" {
			text += ": " + d
		}
		text = document.NormalizeWhitespace(text)
		if text == "" {
			continue
		}
		parts = append(parts, "Topic: "+document.Truncate(text, MaxFallbackChars))
	}
	return strings.Join(parts, "\n\n")
}

// subsample picks up to MaxFallbackTopics topics at random, returned in
// outline order.
func (a *Assembler) subsample(outline []document.Topic) []document.Topic {
	if len(outline) <= MaxFallbackTopics {
		return outline
	}
	idx := a.rng.Perm(len(outline))[:MaxFallbackTopics]
	slices.Sort(idx)
	return lo.Map(idx, func(i int, _ int) document.Topic { return outline[i] })
}

// RenderPages formats chunks as "Page N: content" blocks.
func RenderPages(chunks []document.Chunk) string {
	blocks := lo.FilterMap(chunks, func(c document.Chunk, _ int) (string, bool) {
		content := document.NormalizeWhitespace(c.Content)
		return fmt.Sprintf("Page %d: %s", c.Page, content), content != ""
	})
	return strings.Join(blocks, "\n\n")
}

// RenderSnippets formats snippets in page order.
func RenderSnippets(snippets []sampler.Snippet) string {
	sorted := slices.Clone(snippets)
	slices.SortStableFunc(sorted, func(a, b sampler.Snippet) int { return a.Page - b.Page })
	return RenderPages(lo.Map(sorted, func(s sampler.Snippet, _ int) document.Chunk {
		return document.Chunk{Page: s.Page, Content: s.Content}
	}))
}

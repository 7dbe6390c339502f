package quizgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/docquiz/internal/compress"
	"github.com/abhisek/docquiz/internal/document"
	"github.com/abhisek/docquiz/internal/quiz"
	"github.com/samber/lo"
)

const systemPrompt = `You write multiple-choice quiz questions that test understanding of a document.

Rules:
- Every question must be answerable from the supplied source material alone.
- Give exactly four options labelled A, B, C and D with exactly one correct answer.
- Distractors should reflect plausible misconceptions, not obviously wrong values.
- Ask about the subject matter, never about the document itself: no questions about sections, chapters, headings, pages or layout.
- Do not use "all of the above" or "none of the above" as options.
- Do not copy sentences from the source verbatim into the question; rephrase and apply them.
- Prefer questions that apply ideas to a new situation ("Suppose...", "A student observes...") over pure recall.
- Do not repeat a question or ask the same thing twice with different wording.
- The explanation should say why the correct option is right in terms of the subject matter.
- List in sourcePages the pages each question draws on.`

// BuildPrompt renders the user message for one generation request. The
// layout depends on the context's scope; content is the assembled source
// material.
func BuildPrompt(qc quiz.Context, content string) string {
	base := qc.Common()
	var b strings.Builder

	fmt.Fprintf(&b, "Document: %s\n", base.DocumentTitle)
	fmt.Fprintf(&b, "Scope: %s\n", qc.Scope())

	switch v := qc.(type) {
	case *quiz.SubtopicContext:
		fmt.Fprintf(&b, "Topic: %s\n", v.TopicName)
		fmt.Fprintf(&b, "Subtopic: %s\n", v.SubtopicName)
	case *quiz.TopicContext:
		fmt.Fprintf(&b, "Topic: %s\n", v.TopicName)
	case *quiz.DocumentContext:
		if v.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", v.Description)
		}
	default:
		panic(fmt.Sprintf("quizgen: unknown context type %T", qc))
	}

	if len(base.Pages) > 0 {
		fmt.Fprintf(&b, "Pages: %s\n", joinPages(base.Pages))
	}
	fmt.Fprintf(&b, "Question count: %d\n", base.QuestionCount)
	if base.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", base.Difficulty)
	}

	if dc, ok := qc.(*quiz.DocumentContext); ok {
		writeOutline(&b, dc.Outline)
		writeSummaries(&b, dc.Summaries)
		b.WriteString("\nSpread the questions across as many outline topics as possible. ")
		b.WriteString("At least 40% of them should be scenario questions that apply an idea to a new situation.\n")
	}

	b.WriteString("\nSource material:\n")
	b.WriteString(content)

	return b.String()
}

// regenerationNote is appended to the prompt when an attempt is rejected.
func regenerationNote(attempt int, reason string) string {
	return fmt.Sprintf("\n\nRegeneration note (attempt %d): the previous questions were rejected: %s. "+
		"Write a fresh set that fixes these problems.", attempt, reason)
}

func writeOutline(b *strings.Builder, outline []document.Topic) {
	if len(outline) == 0 {
		return
	}
	b.WriteString("\nOutline:\n")
	for _, t := range outline {
		fmt.Fprintf(b, "- %s (pages %s)\n", t.Title, joinPages(t.Pages))
		for _, s := range t.Subtopics {
			fmt.Fprintf(b, "  - %s (pages %s)\n", s.Title, joinPages(s.Pages))
		}
	}
}

func writeSummaries(b *strings.Builder, summaries []compress.Summary) {
	if len(summaries) == 0 {
		return
	}
	b.WriteString("\nTopic summaries:\n")
	for _, s := range summaries {
		fmt.Fprintf(b, "- [%s] %s: %s\n", s.Kind, s.Title, s.Summary)
	}
}

func joinPages(pages []int) string {
	return strings.Join(lo.Map(pages, func(p int, _ int) string { return strconv.Itoa(p) }), ", ")
}

package quiz

import (
	"slices"

	"github.com/abhisek/docquiz/internal/compress"
	"github.com/abhisek/docquiz/internal/document"
	"github.com/abhisek/docquiz/internal/sampler"
)

// Context is the scope-tagged request a quiz is generated from. It is
// implemented only by *SubtopicContext, *TopicContext and *DocumentContext;
// consumers dispatch with a type switch over those three.
type Context interface {
	Scope() Scope
	Common() Base
	// WithRawContent returns a copy carrying the given prompt content.
	WithRawContent(content string) Context

	sealed()
}

// Base holds the fields shared by every scope.
type Base struct {
	// QuizID is optional; the service fills one in when empty.
	QuizID        string     `json:"quizId,omitempty"`
	DocumentIDs   []string   `json:"documentIds"`
	DocumentTitle string     `json:"documentTitle"`
	Pages         []int      `json:"pages,omitempty"`
	QuestionCount int        `json:"questionCount"`
	Difficulty    Difficulty `json:"difficulty"`
	RawContent    string     `json:"rawContent,omitempty"`
}

// SubtopicContext requests a quiz over one subtopic's pages.
type SubtopicContext struct {
	Base
	TopicName    string `json:"topicName"`
	SubtopicName string `json:"subtopicName"`
}

// TopicContext requests a quiz over one topic's pages.
type TopicContext struct {
	Base
	TopicName string `json:"topicName"`
}

// DocumentContext requests a quiz over a whole document. It is the only
// scope that goes through sampling, compression and evaluation.
type DocumentContext struct {
	Base
	Description      string             `json:"description,omitempty"`
	Outline          []document.Topic   `json:"outline"`
	Snippets         []sampler.Snippet  `json:"snippets,omitempty"`
	Summaries        []compress.Summary `json:"summaries,omitempty"`
	GenerationConfig GenerationConfig   `json:"generationConfig"`
	ConfigVersion    int                `json:"configVersion,omitempty"`
	Diagnostics      Diagnostics        `json:"diagnostics"`
}

func (*SubtopicContext) Scope() Scope { return ScopeSubtopic }
func (*TopicContext) Scope() Scope    { return ScopeTopic }
func (*DocumentContext) Scope() Scope { return ScopeDocument }

func (c *SubtopicContext) Common() Base { return c.Base }
func (c *TopicContext) Common() Base    { return c.Base }
func (c *DocumentContext) Common() Base { return c.Base }

func (*SubtopicContext) sealed() {}
func (*TopicContext) sealed()    {}
func (*DocumentContext) sealed() {}

func (c *SubtopicContext) WithRawContent(content string) Context {
	cp := *c
	cp.RawContent = content
	return &cp
}

func (c *TopicContext) WithRawContent(content string) Context {
	cp := *c
	cp.RawContent = content
	return &cp
}

func (c *DocumentContext) WithRawContent(content string) Context {
	cp := c.Clone()
	cp.RawContent = content
	return cp
}

// Clone returns a copy whose slices can be replaced without touching c.
func (c *DocumentContext) Clone() *DocumentContext {
	cp := *c
	cp.DocumentIDs = slices.Clone(c.DocumentIDs)
	cp.Pages = slices.Clone(c.Pages)
	cp.Snippets = slices.Clone(c.Snippets)
	cp.Summaries = slices.Clone(c.Summaries)
	return &cp
}

// Title derives the display title for a quiz over c.
func Title(c Context) string {
	switch v := c.(type) {
	case *SubtopicContext:
		return "Quiz: " + v.SubtopicName
	case *TopicContext:
		return "Quiz: " + v.TopicName
	case *DocumentContext:
		return "Quiz: " + v.DocumentTitle
	}
	panic("quiz: unknown context type")
}

// MaxAttempts is the generation attempt budget for a scope.
func MaxAttempts(c Context) int {
	switch c.(type) {
	case *DocumentContext:
		return 2
	case *SubtopicContext, *TopicContext:
		return 1
	}
	panic("quiz: unknown context type")
}

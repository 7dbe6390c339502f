package store

import (
	"context"
	"time"

	"github.com/abhisek/docquiz/internal/document"
	"github.com/abhisek/docquiz/internal/quiz"
)

// QueryOpts configures event and quiz queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // LLM events only; empty matches all
}

// Document is the stored metadata of an ingested document.
type Document struct {
	ID          string
	Title       string
	Description string
	Outline     []document.Topic
	ChunkCount  int
	UpdatedAt   time.Time
}

// ChunkRepo stores the page-tagged chunks of ingested documents.
type ChunkRepo interface {
	// ReplaceChunks atomically replaces every chunk of a document.
	ReplaceChunks(ctx context.Context, documentID string, chunks []document.Chunk) error

	// Chunks returns the chunks of the given documents ordered by page.
	// Chunks sharing a page keep their ingestion order.
	Chunks(ctx context.Context, documentIDs []string) ([]document.Chunk, error)

	// SaveDocument upserts document metadata.
	SaveDocument(ctx context.Context, doc Document) error

	// GetDocument returns the document metadata, or nil if unknown.
	GetDocument(ctx context.Context, id string) (*Document, error)

	// ListDocuments returns every known document ordered by id.
	ListDocuments(ctx context.Context) ([]Document, error)
}

// QuizSummary is a listing row for a persisted quiz.
type QuizSummary struct {
	ID            string
	Sequence      int64
	Title         string
	Scope         quiz.Scope
	QuestionCount int
	CreatedAt     time.Time
}

// QuizRepo persists generated quizzes.
type QuizRepo interface {
	// SaveQuiz stores a new quiz result. A stored quiz is never replaced;
	// a duplicate id yields ErrQuizExists.
	SaveQuiz(ctx context.Context, res *quiz.Result) error

	// GetQuiz returns the stored quiz, or nil if unknown.
	GetQuiz(ctx context.Context, id string) (*quiz.Result, error)

	// ListQuizzes returns quizzes newest first.
	ListQuizzes(ctx context.Context, opts QueryOpts) ([]QuizSummary, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil if unknown.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

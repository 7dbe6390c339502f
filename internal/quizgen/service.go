// Package quizgen turns a scoped quiz request into a finished quiz: it
// loads the backing chunks, assembles the prompt, runs the generation loop
// and persists the result.
package quizgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/abhisek/docquiz/internal/assembler"
	"github.com/abhisek/docquiz/internal/document"
	"github.com/abhisek/docquiz/internal/logger"
	"github.com/abhisek/docquiz/internal/quiz"
	"github.com/abhisek/docquiz/internal/store"
)

var (
	// ErrNotFound means the requested scope has no backing content.
	ErrNotFound = errors.New("no content found for quiz scope")

	// ErrGenerationFailed wraps every generator failure.
	ErrGenerationFailed = errors.New("failed to generate quiz questions")
)

// ChunkSource loads the chunks of a set of documents ordered by page.
type ChunkSource interface {
	Chunks(ctx context.Context, documentIDs []string) ([]document.Chunk, error)
}

// Service generates quizzes end to end.
type Service struct {
	chunks       ChunkSource
	assembler    *assembler.Assembler
	orchestrator *Orchestrator
	quizzes      store.QuizRepo
	log          *logger.Logger
}

// NewService creates a quiz generation service. quizzes may be nil, in
// which case results are not persisted.
func NewService(chunks ChunkSource, asm *assembler.Assembler, orch *Orchestrator, quizzes store.QuizRepo, log *logger.Logger) *Service {
	return &Service{
		chunks:       chunks,
		assembler:    asm,
		orchestrator: orch,
		quizzes:      quizzes,
		log:          logger.OrNop(log),
	}
}

// Generate produces a quiz for qc. It returns ErrNotFound when the scope
// has no content and wraps generator failures in ErrGenerationFailed. A
// quiz with no questions is returned without error.
func (s *Service) Generate(ctx context.Context, qc quiz.Context) (*quiz.Result, error) {
	base := qc.Common()

	chunks, err := s.chunks.Chunks(ctx, base.DocumentIDs)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	enriched, content := s.assembler.Assemble(ctx, qc, chunks)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: %s scope of %v", ErrNotFound, qc.Scope(), base.DocumentIDs)
	}

	out, err := s.orchestrator.Run(ctx, enriched, BuildPrompt(enriched, content))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	id := lo.CoalesceOrEmpty(base.QuizID, out.QuizID, uuid.NewString())
	res := &quiz.Result{
		QuizID:      id,
		Questions:   out.Questions,
		Title:       quiz.Title(enriched),
		Scope:       enriched.Scope(),
		Context:     finalizeContext(enriched, id, out.Diagnostics),
		Diagnostics: out.Diagnostics,
	}

	if len(res.Questions) == 0 {
		s.log.Warn("quiz generated without questions", "quiz_id", id, "scope", res.Scope)
	}
	s.log.Info("quiz generated",
		"quiz_id", id,
		"scope", res.Scope,
		"questions", len(res.Questions),
		"attempts", out.Attempts)

	if s.quizzes != nil {
		s.save(ctx, res, base.QuizID == "")
	}

	return res, nil
}

// save persists res. Generators tend to reuse ids such as "quiz-1", so an
// id the caller did not choose is replaced with a fresh UUID when it is
// already stored. A failed save is only logged.
func (s *Service) save(ctx context.Context, res *quiz.Result, reassignable bool) {
	err := s.quizzes.SaveQuiz(ctx, res)
	if errors.Is(err, store.ErrQuizExists) && reassignable {
		taken := res.QuizID
		res.QuizID = uuid.NewString()
		res.Context = finalizeContext(res.Context, res.QuizID, res.Diagnostics)
		s.log.Info("generator quiz id already stored, using a fresh id", "taken", taken, "quiz_id", res.QuizID)
		err = s.quizzes.SaveQuiz(ctx, res)
	}
	if err != nil {
		s.log.Warn("failed to save quiz", "quiz_id", res.QuizID, "error", err)
	}
}

// finalizeContext stamps the quiz id on a copy of qc and, for document
// scope, attaches the merged diagnostics.
func finalizeContext(qc quiz.Context, id string, diag quiz.Diagnostics) quiz.Context {
	switch v := qc.(type) {
	case *quiz.SubtopicContext:
		cp := *v
		cp.QuizID = id
		return &cp
	case *quiz.TopicContext:
		cp := *v
		cp.QuizID = id
		return &cp
	case *quiz.DocumentContext:
		cp := v.Clone()
		cp.QuizID = id
		cp.Diagnostics = diag
		return cp
	}
	panic(fmt.Sprintf("quizgen: unknown context type %T", qc))
}

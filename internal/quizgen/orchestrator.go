package quizgen

import (
	"context"
	"fmt"

	"github.com/abhisek/docquiz/internal/evaluator"
	"github.com/abhisek/docquiz/internal/logger"
	"github.com/abhisek/docquiz/internal/quiz"
	"github.com/samber/lo"
)

// Outcome is the result of an orchestrated generation run.
type Outcome struct {
	Questions   []quiz.Question
	Diagnostics quiz.Diagnostics

	// Attempts is the number of generator calls made.
	Attempts int

	// QuizID is the first identifier proposed by the generator.
	QuizID string
}

// Orchestrator drives the bounded generate/evaluate/regenerate loop.
type Orchestrator struct {
	source    Source
	evaluator *evaluator.Evaluator
	log       *logger.Logger
}

// NewOrchestrator creates an Orchestrator. A nil evaluator uses the default
// thresholds.
func NewOrchestrator(source Source, ev *evaluator.Evaluator, log *logger.Logger) *Orchestrator {
	if ev == nil {
		ev = evaluator.New(evaluator.DefaultConfig())
	}
	return &Orchestrator{source: source, evaluator: ev, log: logger.OrNop(log)}
}

// Run generates questions for an assembled context. Document-scope requests
// are evaluated and may be regenerated once with a note explaining what was
// wrong; other scopes make a single attempt. An empty question list is a
// valid, degraded outcome. Only generator failures are returned as errors.
func (o *Orchestrator) Run(ctx context.Context, qc quiz.Context, prompt string) (Outcome, error) {
	maxAttempts := quiz.MaxAttempts(qc)
	target := qc.Common().QuestionCount

	var out Outcome
	if dc, ok := qc.(*quiz.DocumentContext); ok {
		out.Diagnostics = dc.Diagnostics
	}

	var selected []quiz.Question
	current := prompt
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		batch, err := o.source.Generate(ctx, current)
		if err != nil {
			return Outcome{}, fmt.Errorf("attempt %d: %w", attempt, err)
		}
		out.Attempts = attempt
		out.QuizID = lo.CoalesceOrEmpty(out.QuizID, batch.QuizID)
		candidates := quiz.NormalizeAll(batch.Questions)

		dc, ok := qc.(*quiz.DocumentContext)
		if !ok {
			selected = candidates
			break
		}

		ev := o.evaluator.Evaluate(candidates, dc)
		out.Diagnostics = out.Diagnostics.Merge(ev.Diagnostics)
		o.log.Info("evaluated quiz candidates",
			"attempt", attempt,
			"candidates", len(candidates),
			"accepted", len(ev.Accepted),
			"structural", quiz.Value(ev.Diagnostics.StructuralQuestionCount),
			"literal", quiz.Value(ev.Diagnostics.LiteralQuestionCount),
			"redundant", quiz.Value(ev.Diagnostics.RedundantQuestionCount),
			"application_ratio", quiz.Value(ev.Diagnostics.ApplicationRatio))

		if ev.ShouldRegenerate {
			out.Diagnostics.RegenerationReason = quiz.Ptr(ev.Reason)
			if attempt < maxAttempts {
				o.log.Info("regenerating quiz", "attempt", attempt, "reason", ev.Reason)
				current += regenerationNote(attempt, ev.Reason)
				continue
			}
		}

		selected = ev.Accepted
		if len(selected) == 0 {
			selected = truncate(ev.Fallback, target)
		}
		break
	}

	out.Questions = quiz.Finalize(selected, target)
	out.Diagnostics.Attempts = quiz.Ptr(out.Attempts)
	return out, nil
}

func truncate(questions []quiz.Question, n int) []quiz.Question {
	if n > 0 && len(questions) > n {
		return questions[:n]
	}
	return questions
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/docquiz/internal/quiz"
)

// ErrQuizExists is returned by SaveQuiz when the id is already stored.
var ErrQuizExists = errors.New("quiz id already exists")

// quizRepo implements QuizRepo on the quizzes table. Questions, context and
// diagnostics are stored as JSON documents.
type quizRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *quizRepo) SaveQuiz(ctx context.Context, res *quiz.Result) error {
	if res.QuizID == "" {
		return fmt.Errorf("save quiz: empty quiz id")
	}
	if res.Context == nil {
		return fmt.Errorf("save quiz %s: missing context", res.QuizID)
	}

	questions, err := json.Marshal(res.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	qctx, err := quiz.MarshalContext(res.Context)
	if err != nil {
		return err
	}
	diag, err := json.Marshal(res.Diagnostics)
	if err != nil {
		return fmt.Errorf("marshal diagnostics: %w", err)
	}

	var taken int
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quizzes WHERE id = ?`, res.QuizID).Scan(&taken)
	if err != nil {
		return fmt.Errorf("check quiz %s: %w", res.QuizID, err)
	}
	if taken > 0 {
		return fmt.Errorf("save quiz %s: %w", res.QuizID, ErrQuizExists)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO quizzes (
		id, sequence, created_at, scope, title, question_count, questions,
		context, diagnostics
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.QuizID, seqNum, time.Now().UnixMilli(), string(res.Scope), res.Title,
		len(res.Questions), string(questions), string(qctx), string(diag))
	if err != nil {
		return fmt.Errorf("save quiz %s: %w", res.QuizID, err)
	}
	return nil
}

func (r *quizRepo) GetQuiz(ctx context.Context, id string) (*quiz.Result, error) {
	var (
		res                   quiz.Result
		scope                 string
		questions, qctx, diag string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, scope, title, questions, context, diagnostics FROM quizzes WHERE id = ?`, id,
	).Scan(&res.QuizID, &scope, &res.Title, &questions, &qctx, &diag)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query quiz %s: %w", id, err)
	}

	res.Scope = quiz.Scope(scope)
	if err := json.Unmarshal([]byte(questions), &res.Questions); err != nil {
		return nil, fmt.Errorf("decode questions of %s: %w", id, err)
	}
	if res.Context, err = quiz.UnmarshalContext([]byte(qctx)); err != nil {
		return nil, fmt.Errorf("decode context of %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(diag), &res.Diagnostics); err != nil {
		return nil, fmt.Errorf("decode diagnostics of %s: %w", id, err)
	}
	return &res, nil
}

func (r *quizRepo) ListQuizzes(ctx context.Context, opts QueryOpts) ([]QuizSummary, error) {
	where, args := opts.where("created_at", "")
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sequence, title, scope, question_count, created_at FROM quizzes`+
			where+" ORDER BY sequence DESC"+opts.limit(),
		args...)
	if err != nil {
		return nil, fmt.Errorf("query quizzes: %w", err)
	}
	defer rows.Close()

	var out []QuizSummary
	for rows.Next() {
		var (
			q       QuizSummary
			scope   string
			created int64
		)
		if err := rows.Scan(&q.ID, &q.Sequence, &q.Title, &scope, &q.QuestionCount, &created); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		q.Scope = quiz.Scope(scope)
		q.CreatedAt = fromMillis(created)
		out = append(out, q)
	}
	return out, rows.Err()
}

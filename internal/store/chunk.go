package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/docquiz/internal/document"
)

// chunkRepo implements ChunkRepo on the documents and chunks tables.
type chunkRepo struct {
	db *sql.DB
}

func (r *chunkRepo) ReplaceChunks(ctx context.Context, documentID string, chunks []document.Chunk) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO chunks (document_id, position, page, content) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		if _, err := stmt.ExecContext(ctx, documentID, i, c.Page, c.Content); err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}

	// Make sure the document is listed even without explicit metadata.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (id, updated_at) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET updated_at = excluded.updated_at`,
		documentID, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("touch document: %w", err)
	}

	return tx.Commit()
}

func (r *chunkRepo) Chunks(ctx context.Context, documentIDs []string) ([]document.Chunk, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}

	// Order by page first, then by the order the caller listed documents.
	var order strings.Builder
	order.WriteString("CASE document_id")
	for i := range documentIDs {
		fmt.Fprintf(&order, " WHEN ? THEN %d", i)
	}
	order.WriteString(" END")

	query := fmt.Sprintf(`SELECT page, content FROM chunks
		WHERE document_id IN (%s)
		ORDER BY page, %s, position`,
		placeholders(len(documentIDs)), order.String())

	// Bound twice: once for IN, once for the CASE ordering.
	args := make([]any, 0, 2*len(documentIDs))
	for range 2 {
		for _, id := range documentIDs {
			args = append(args, id)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var out []document.Chunk
	for rows.Next() {
		var c document.Chunk
		if err := rows.Scan(&c.Page, &c.Content); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *chunkRepo) SaveDocument(ctx context.Context, doc Document) error {
	outline, err := json.Marshal(doc.Outline)
	if err != nil {
		return fmt.Errorf("marshal outline: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, description, outline, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			outline = excluded.outline,
			updated_at = excluded.updated_at`,
		doc.ID, doc.Title, doc.Description, string(outline), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	return nil
}

const documentQuery = `SELECT d.id, d.title, d.description, d.outline, d.updated_at,
	(SELECT COUNT(*) FROM chunks c WHERE c.document_id = d.id)
	FROM documents d`

func (r *chunkRepo) GetDocument(ctx context.Context, id string) (*Document, error) {
	doc, err := scanDocument(r.db.QueryRowContext(ctx, documentQuery+" WHERE d.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return doc, err
}

func (r *chunkRepo) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx, documentQuery+" ORDER BY d.id")
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	return out, rows.Err()
}

func scanDocument(s scanner) (*Document, error) {
	var (
		doc     Document
		outline string
		updated int64
	)
	if err := s.Scan(&doc.ID, &doc.Title, &doc.Description, &outline, &updated, &doc.ChunkCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	if err := json.Unmarshal([]byte(outline), &doc.Outline); err != nil {
		return nil, fmt.Errorf("decode outline of %s: %w", doc.ID, err)
	}
	doc.UpdatedAt = fromMillis(updated)
	return &doc, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

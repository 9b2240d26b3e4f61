package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGTier is the Postgres-backed primary tier. Content lives in the documents
// table; a single INSERT keeps the write all-or-nothing.
type PGTier struct {
	DB *sql.DB
}

// Put inserts a new document row.
func (t *PGTier) Put(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, file_name, original_filename, content_type, category, size_bytes, content, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	originalName := doc.OriginalFilename
	if originalName == "" {
		originalName = doc.FileName
	}

	_, err := t.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.FileName,
		originalName,
		doc.ContentType,
		doc.Category,
		doc.SizeBytes,
		doc.Content,
		doc.CreatedAt,
	)
	return err
}

// Get returns the raw content for a document id.
func (t *PGTier) Get(ctx context.Context, id string) ([]byte, error) {
	const query = `SELECT content FROM documents WHERE id = $1`
	var content []byte
	err := t.DB.QueryRowContext(ctx, query, id).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return content, nil
}

var _ PrimaryTier = (*PGTier)(nil)

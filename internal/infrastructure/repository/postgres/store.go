package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"

	"github.com/documind/documind/internal/core/domain"
)

// Store is the single durable store: document metadata, chunk rows with
// their pgvector embeddings, and all three query shapes the retrieval
// layer needs (nearest-neighbor, substring, index order).
type Store struct {
	db           *sql.DB
	embeddingDim int
}

func NewStore(db *sql.DB, embeddingDim int) *Store {
	return &Store{db: db, embeddingDim: embeddingDim}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	query := fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	upload_date TIMESTAMPTZ NOT NULL,
	summary TEXT,
	total_pages INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS document_chunks (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	chunk_text TEXT NOT NULL,
	chunk_index INTEGER NOT NULL,
	embedding vector(%d) NOT NULL,
	UNIQUE (document_id, chunk_index)
);

CREATE INDEX IF NOT EXISTS idx_documents_upload_date ON documents(upload_date DESC);
CREATE INDEX IF NOT EXISTS idx_document_chunks_document ON document_chunks(document_id, chunk_index);
`, s.embeddingDim)
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// CreateDocumentWithChunks commits the document row and all chunk rows in a
// single transaction. Nothing from a failed call stays visible.
func (s *Store) CreateDocumentWithChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ingest tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
INSERT INTO documents (id, filename, upload_date, summary, total_pages)
VALUES ($1,$2,$3,$4,$5)
`, doc.ID, doc.Filename, doc.UploadDate, doc.Summary, doc.TotalPages)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	for _, chunk := range chunks {
		_, err = tx.ExecContext(ctx, `
INSERT INTO document_chunks (id, document_id, chunk_text, chunk_index, embedding)
VALUES ($1,$2,$3,$4,$5)
`, chunk.ID, chunk.DocumentID, chunk.Text, chunk.Index, pgvector.NewVector(chunk.Embedding))
		if err != nil {
			return fmt.Errorf("insert chunk %d: %w", chunk.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ingest tx: %w", err)
	}
	return nil
}

func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, filename, upload_date, summary, total_pages
FROM documents
ORDER BY upload_date DESC, id
`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Document, 0, 16)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (s *Store) GetDocumentByID(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, filename, upload_date, summary, total_pages
FROM documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes the document; chunk rows go with it via the
// ON DELETE CASCADE constraint.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "delete document", fmt.Errorf("id %s", id))
	}
	return nil
}

func (s *Store) UpdateSummary(ctx context.Context, id string, summary string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE documents SET summary = $2 WHERE id = $1`, id, summary)
	if err != nil {
		return fmt.Errorf("update summary: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update summary rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "update summary", fmt.Errorf("id %s", id))
	}
	return nil
}

func (s *Store) ListChunksByIndex(ctx context.Context, filter domain.ChunkFilter, limit int) ([]domain.Chunk, error) {
	query := `
SELECT id, document_id, chunk_text, chunk_index
FROM document_chunks
`
	args := make([]any, 0, 2)
	if filter.DocumentID != "" {
		query += `WHERE document_id = $1
`
		args = append(args, filter.DocumentID)
	}
	query += fmt.Sprintf(`ORDER BY chunk_index, id
LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	return s.queryChunks(ctx, "list chunks by index", query, args...)
}

func (s *Store) ResolveFilenames(ctx context.Context, documentIDs []string) (map[string]string, error) {
	if len(documentIDs) == 0 {
		return map[string]string{}, nil
	}

	placeholders := make([]string, len(documentIDs))
	args := make([]any, len(documentIDs))
	for i, id := range documentIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT id, filename FROM documents WHERE id IN (%s)`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve filenames: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string, len(documentIDs))
	for rows.Next() {
		var id, filename string
		if err := rows.Scan(&id, &filename); err != nil {
			return nil, fmt.Errorf("scan filename: %w", err)
		}
		out[id] = filename
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate filenames: %w", err)
	}
	return out, nil
}

func (s *Store) queryChunks(ctx context.Context, operation, query string, args ...any) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer rows.Close()

	out := make([]domain.Chunk, 0, 16)
	for rows.Next() {
		var chunk domain.Chunk
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Text, &chunk.Index); err != nil {
			return nil, fmt.Errorf("%s: scan chunk: %w", operation, err)
		}
		out = append(out, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate chunks: %w", operation, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var summary sql.NullString

	if err := row.Scan(&doc.ID, &doc.Filename, &doc.UploadDate, &summary, &doc.TotalPages); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.Summary = summary.String
	return &doc, nil
}

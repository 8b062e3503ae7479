package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"

	"github.com/documind/documind/internal/core/domain"
)

// SearchByVector orders chunks by L2 distance to the query vector. The id
// tiebreak keeps equal-distance results reproducible.
func (s *Store) SearchByVector(ctx context.Context, queryVector []float32, limit int, filter domain.ChunkFilter) ([]domain.Chunk, error) {
	query := `
SELECT id, document_id, chunk_text, chunk_index
FROM document_chunks
`
	args := []any{pgvector.NewVector(queryVector)}
	if filter.DocumentID != "" {
		query += `WHERE document_id = $2
`
		args = append(args, filter.DocumentID)
	}
	query += fmt.Sprintf(`ORDER BY embedding <-> $1, id
LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	return s.queryChunks(ctx, "vector search", query, args...)
}

// SearchByKeywords returns chunks whose text contains any token as a
// case-insensitive substring, in insertion order.
func (s *Store) SearchByKeywords(ctx context.Context, tokens []string, limit int, filter domain.ChunkFilter) ([]domain.Chunk, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	conditions := make([]string, 0, len(tokens))
	args := make([]any, 0, len(tokens)+2)
	for _, token := range tokens {
		args = append(args, "%"+escapeLikePattern(token)+"%")
		conditions = append(conditions, fmt.Sprintf("chunk_text ILIKE $%d", len(args)))
	}

	query := fmt.Sprintf(`
SELECT id, document_id, chunk_text, chunk_index
FROM document_chunks
WHERE (%s)
`, strings.Join(conditions, " OR "))
	if filter.DocumentID != "" {
		args = append(args, filter.DocumentID)
		query += fmt.Sprintf(`AND document_id = $%d
`, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(`ORDER BY id
LIMIT $%d`, len(args))

	return s.queryChunks(ctx, "keyword search", query, args...)
}

func escapeLikePattern(token string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(token)
}

package ports

import (
	"context"
	"io"

	"github.com/documind/documind/internal/core/domain"
)

// DocumentStore persists documents with their chunks and serves ordered reads.
type DocumentStore interface {
	// CreateDocumentWithChunks commits the document row and every chunk row
	// atomically. On error nothing from this call is visible.
	CreateDocumentWithChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error
	ListDocuments(ctx context.Context) ([]domain.Document, error)
	GetDocumentByID(ctx context.Context, id string) (*domain.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	UpdateSummary(ctx context.Context, id string, summary string) error
	// ListChunksByIndex returns up to limit chunks ordered by ascending
	// chunk index, optionally restricted to one document.
	ListChunksByIndex(ctx context.Context, filter domain.ChunkFilter, limit int) ([]domain.Chunk, error)
	// ResolveFilenames maps document ids to filenames for source attribution.
	ResolveFilenames(ctx context.Context, documentIDs []string) (map[string]string, error)
}

// VectorSearcher returns the chunks nearest to a query vector under L2
// distance, ties broken by chunk id.
type VectorSearcher interface {
	SearchByVector(ctx context.Context, queryVector []float32, limit int, filter domain.ChunkFilter) ([]domain.Chunk, error)
}

// LexicalSearcher returns chunks whose text contains any of the given tokens
// as a case-insensitive substring. Kept separate from DocumentStore so the
// substring scan can be swapped for a full-text index without touching fusion.
type LexicalSearcher interface {
	SearchByKeywords(ctx context.Context, tokens []string, limit int, filter domain.ChunkFilter) ([]domain.Chunk, error)
}

// Segmenter splits extracted text into overlapping chunk texts.
type Segmenter interface {
	Split(text string) []string
}

// Embedder maps text to a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// AnswerGenerator produces the final answer / summary text.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question, contextText string) (string, error)
	GenerateSummary(ctx context.Context, text string) (string, error)
}

// TextExtractor loads the ordered text segments of a materialized file.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (*domain.ExtractedText, error)
}

// FileSpool materializes an upload on disk for extractors that need a path.
// The cleanup func removes the file and is safe to call on every exit path.
type FileSpool interface {
	Materialize(ctx context.Context, filename string, body io.Reader) (path string, cleanup func(), err error)
}

// MessageQueue publishes/consumes summary backfill events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

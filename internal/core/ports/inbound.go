package ports

import (
	"context"
	"io"

	"github.com/documind/documind/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Ingest(ctx context.Context, filename string, body io.Reader) (*domain.IngestResult, error)
}

// DocumentQueryService is the inbound contract for question answering.
type DocumentQueryService interface {
	Ask(ctx context.Context, question string, documentID string) (*domain.Answer, error)
}

// DocumentSummarizer is the inbound contract for asynchronous summary backfill.
type DocumentSummarizer interface {
	SummarizeByID(ctx context.Context, documentID string) error
}

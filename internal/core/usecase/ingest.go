package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/documind/documind/internal/core/domain"
	"github.com/documind/documind/internal/core/ports"
)

type IngestDocumentUseCase struct {
	spool      ports.FileSpool
	extractors map[string]ports.TextExtractor
	segmenter  ports.Segmenter
	embedder   ports.Embedder
	store      ports.DocumentStore
	queue      ports.MessageQueue
}

func NewIngestDocumentUseCase(
	spool ports.FileSpool,
	extractors map[string]ports.TextExtractor,
	segmenter ports.Segmenter,
	embedder ports.Embedder,
	store ports.DocumentStore,
	queue ports.MessageQueue,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		spool:      spool,
		extractors: extractors,
		segmenter:  segmenter,
		embedder:   embedder,
		store:      store,
		queue:      queue,
	}
}

// Ingest turns an uploaded file into a persisted, searchable document.
// The document row and its chunk rows become visible together or not at
// all; the spooled file is removed on every exit path.
func (uc *IngestDocumentUseCase) Ingest(ctx context.Context, filename string, body io.Reader) (*domain.IngestResult, error) {
	extractor, err := uc.extractorFor(filename)
	if err != nil {
		return nil, err
	}

	path, cleanup, err := uc.spool.Materialize(ctx, filename, body)
	if err != nil {
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	defer cleanup()

	extracted, err := extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	chunkTexts := uc.segmenter.Split(strings.Join(extracted.Segments, "\n\n"))
	if len(chunkTexts) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "segment text", errors.New("segmentation produced zero chunks"))
	}

	doc := &domain.Document{
		ID:         uuid.NewString(),
		Filename:   filename,
		UploadDate: time.Now().UTC(),
		Summary:    domain.SummaryPending,
		TotalPages: extracted.Pages,
	}

	chunks, err := uc.embedChunks(ctx, doc.ID, chunkTexts)
	if err != nil {
		return nil, err
	}

	if err := uc.store.CreateDocumentWithChunks(ctx, doc, chunks); err != nil {
		return nil, fmt.Errorf("persist document: %w", err)
	}

	// The document is durable at this point; a lost event only delays the
	// summary backfill.
	if err := uc.queue.PublishDocumentIngested(ctx, doc.ID); err != nil {
		slog.Warn("publish_summarize_event_failed", "document_id", doc.ID, "error", err)
	}

	return &domain.IngestResult{
		DocumentID: doc.ID,
		ChunkCount: len(chunks),
	}, nil
}

func (uc *IngestDocumentUseCase) extractorFor(filename string) (ports.TextExtractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	extractor, ok := uc.extractors[ext]
	if !ok {
		return nil, domain.WrapError(domain.ErrUnsupportedFormat, "ingest",
			fmt.Errorf("extension %q is not recognized", ext))
	}
	return extractor, nil
}

// embedChunks embeds chunk texts one at a time in index order. Each chunk's
// vector comes from its own text and is never recomputed.
func (uc *IngestDocumentUseCase) embedChunks(ctx context.Context, documentID string, chunkTexts []string) ([]domain.Chunk, error) {
	chunks := make([]domain.Chunk, 0, len(chunkTexts))
	for i, text := range chunkTexts {
		vector, err := uc.embedder.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			Text:       text,
			Index:      i,
			Embedding:  vector,
		})
	}
	return chunks, nil
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/documind/documind/internal/core/domain"
	"github.com/documind/documind/internal/core/ports"
)

func newIngestFixture() (*IngestDocumentUseCase, *fakeSpool, *fakeExtractor, *fakeSegmenter, *fakeEmbedder, *fakeStore, *fakeQueue) {
	spool := &fakeSpool{path: "/tmp/upload-1.pdf"}
	extractor := &fakeExtractor{text: &domain.ExtractedText{
		Segments: []string{"page one", "page two"},
		Pages:    2,
	}}
	segmenter := &fakeSegmenter{pieces: []string{"chunk a", "chunk b", "chunk c"}}
	embedder := &fakeEmbedder{vector: []float32{1, 2, 3}}
	store := &fakeStore{}
	queue := &fakeQueue{}

	uc := NewIngestDocumentUseCase(
		spool,
		map[string]ports.TextExtractor{".pdf": extractor, ".txt": extractor},
		segmenter,
		embedder,
		store,
		queue,
	)
	return uc, spool, extractor, segmenter, embedder, store, queue
}

func TestIngestSuccess(t *testing.T) {
	uc, spool, extractor, _, embedder, store, queue := newIngestFixture()

	result, err := uc.Ingest(context.Background(), "report.PDF", strings.NewReader("raw bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ChunkCount != 3 {
		t.Fatalf("expected 3 chunks, got %d", result.ChunkCount)
	}
	if result.DocumentID == "" {
		t.Fatal("expected non-empty document id")
	}
	if extractor.lastPath != spool.path {
		t.Fatalf("extractor got path %q, want %q", extractor.lastPath, spool.path)
	}
	if !spool.cleaned {
		t.Fatal("spooled file was not cleaned up")
	}
	if embedder.calls != 3 {
		t.Fatalf("expected 3 embed calls, got %d", embedder.calls)
	}
	if store.createdDoc == nil {
		t.Fatal("document was not persisted")
	}
	if store.createdDoc.Summary != domain.SummaryPending {
		t.Fatalf("expected summary placeholder, got %q", store.createdDoc.Summary)
	}
	if store.createdDoc.TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", store.createdDoc.TotalPages)
	}
	for i, chunk := range store.createdChunks {
		if chunk.Index != i {
			t.Fatalf("chunk %d has index %d", i, chunk.Index)
		}
		if chunk.DocumentID != result.DocumentID {
			t.Fatalf("chunk %d bound to document %q", i, chunk.DocumentID)
		}
		if len(chunk.Embedding) == 0 {
			t.Fatalf("chunk %d has no embedding", i)
		}
	}
	if len(queue.published) != 1 || queue.published[0] != result.DocumentID {
		t.Fatalf("expected one summarize event for %q, got %v", result.DocumentID, queue.published)
	}
}

func TestIngestRejectsUnsupportedExtension(t *testing.T) {
	uc, spool, _, _, _, store, _ := newIngestFixture()

	_, err := uc.Ingest(context.Background(), "slides.docx", strings.NewReader("x"))
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
	if spool.lastName != "" {
		t.Fatal("rejected upload should never reach the spool")
	}
	if store.createdDoc != nil {
		t.Fatal("rejected upload should never reach the store")
	}
}

func TestIngestEmbedFailureAbortsBeforePersist(t *testing.T) {
	uc, spool, _, _, embedder, store, queue := newIngestFixture()
	embedder.err = domain.WrapError(domain.ErrEmbedding, "embed", errors.New("model offline"))
	embedder.failAt = 2

	_, err := uc.Ingest(context.Background(), "report.pdf", strings.NewReader("x"))
	if !domain.IsKind(err, domain.ErrEmbedding) {
		t.Fatalf("expected embedding error, got %v", err)
	}
	if store.createdDoc != nil {
		t.Fatal("nothing may be persisted when an embedding fails")
	}
	if !spool.cleaned {
		t.Fatal("spooled file must be cleaned up on the failure path")
	}
	if len(queue.published) != 0 {
		t.Fatal("no event may be published for a failed ingest")
	}
}

func TestIngestExtractFailureCleansUp(t *testing.T) {
	uc, spool, extractor, _, _, store, _ := newIngestFixture()
	extractor.err = domain.WrapError(domain.ErrLoadFailure, "extract", errors.New("corrupt file"))

	_, err := uc.Ingest(context.Background(), "report.pdf", strings.NewReader("x"))
	if !domain.IsKind(err, domain.ErrLoadFailure) {
		t.Fatalf("expected load failure, got %v", err)
	}
	if !spool.cleaned {
		t.Fatal("spooled file must be cleaned up when extraction fails")
	}
	if store.createdDoc != nil {
		t.Fatal("failed extraction must not persist anything")
	}
}

func TestIngestEmptySegmentationIsInvalidInput(t *testing.T) {
	uc, spool, _, segmenter, embedder, _, _ := newIngestFixture()
	segmenter.pieces = nil

	_, err := uc.Ingest(context.Background(), "empty.txt", strings.NewReader(""))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if embedder.calls != 0 {
		t.Fatal("nothing to embed when segmentation is empty")
	}
	if !spool.cleaned {
		t.Fatal("spooled file must be cleaned up for empty documents")
	}
}

func TestIngestPublishFailureIsNotFatal(t *testing.T) {
	uc, _, _, _, _, store, queue := newIngestFixture()
	queue.err = errors.New("broker unreachable")

	result, err := uc.Ingest(context.Background(), "report.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("publish failure must not fail the ingest: %v", err)
	}
	if store.createdDoc == nil || store.createdDoc.ID != result.DocumentID {
		t.Fatal("document must still be persisted")
	}
}

func TestIngestStoreFailurePropagates(t *testing.T) {
	uc, spool, _, _, _, store, queue := newIngestFixture()
	store.createErr = errors.New("connection reset")

	_, err := uc.Ingest(context.Background(), "report.pdf", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if !spool.cleaned {
		t.Fatal("spooled file must be cleaned up when persistence fails")
	}
	if len(queue.published) != 0 {
		t.Fatal("no event may be published when persistence fails")
	}
}

package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/documind/documind/internal/core/domain"
)

func TestSearchByVectorWithoutFilter(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"id", "document_id", "chunk_text", "chunk_index"}).
		AddRow("c-3", "doc-1", "closest", 3).
		AddRow("c-7", "doc-2", "second closest", 7)
	mock.ExpectQuery("SELECT id, document_id, chunk_text, chunk_index").
		WithArgs(sqlmock.AnyArg(), 10).
		WillReturnRows(rows)

	chunks, err := store.SearchByVector(context.Background(), []float32{0.1, 0.2}, 10, domain.ChunkFilter{})
	if err != nil {
		t.Fatalf("SearchByVector() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].ID != "c-3" {
		t.Fatalf("expected distance order preserved, got first=%s", chunks[0].ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSearchByVectorWithDocumentFilter(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"id", "document_id", "chunk_text", "chunk_index"}).
		AddRow("c-1", "doc-1", "hit", 1)
	mock.ExpectQuery("SELECT id, document_id, chunk_text, chunk_index").
		WithArgs(sqlmock.AnyArg(), "doc-1", 10).
		WillReturnRows(rows)

	chunks, err := store.SearchByVector(context.Background(), []float32{0.5}, 10, domain.ChunkFilter{DocumentID: "doc-1"})
	if err != nil {
		t.Fatalf("SearchByVector() error = %v", err)
	}
	if len(chunks) != 1 || chunks[0].DocumentID != "doc-1" {
		t.Fatalf("unexpected chunks %v", chunks)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSearchByKeywordsBuildsILIKEDisjunction(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"id", "document_id", "chunk_text", "chunk_index"}).
		AddRow("c-2", "doc-1", "contains invoice", 2)
	mock.ExpectQuery(`chunk_text ILIKE \$1 OR chunk_text ILIKE \$2`).
		WithArgs("%invoice%", "%total%", 10).
		WillReturnRows(rows)

	chunks, err := store.SearchByKeywords(context.Background(), []string{"invoice", "total"}, 10, domain.ChunkFilter{})
	if err != nil {
		t.Fatalf("SearchByKeywords() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSearchByKeywordsEscapesLikeWildcards(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"id", "document_id", "chunk_text", "chunk_index"})
	mock.ExpectQuery("chunk_text ILIKE").
		WithArgs(`%100\%%`, 10).
		WillReturnRows(rows)

	_, err := store.SearchByKeywords(context.Background(), []string{"100%"}, 10, domain.ChunkFilter{})
	if err != nil {
		t.Fatalf("SearchByKeywords() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSearchByKeywordsNoTokensReturnsNothing(t *testing.T) {
	store, _, done := newStoreWithMock(t)
	defer done()

	chunks, err := store.SearchByKeywords(context.Background(), nil, 10, domain.ChunkFilter{})
	if err != nil {
		t.Fatalf("SearchByKeywords() error = %v", err)
	}
	if chunks != nil {
		t.Fatalf("expected no chunks without tokens, got %v", chunks)
	}
}

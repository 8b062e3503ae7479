package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/documind/documind/internal/core/domain"
)

type fakeStore struct {
	createdDoc    *domain.Document
	createdChunks []domain.Chunk
	createErr     error

	chunks        []domain.Chunk
	chunkErr      error
	lastFilter    domain.ChunkFilter
	lastLimit     int
	listCalls     int
	filenames     map[string]string
	updatedID     string
	updatedText   string
	updateErr     error
	getDoc        *domain.Document
	getErr        error
}

func (s *fakeStore) CreateDocumentWithChunks(_ context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.createdDoc = doc
	s.createdChunks = chunks
	return nil
}

func (s *fakeStore) ListDocuments(context.Context) ([]domain.Document, error) {
	return nil, nil
}

func (s *fakeStore) GetDocumentByID(_ context.Context, id string) (*domain.Document, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.getDoc != nil {
		return s.getDoc, nil
	}
	return &domain.Document{ID: id}, nil
}

func (s *fakeStore) DeleteDocument(context.Context, string) error { return nil }

func (s *fakeStore) UpdateSummary(_ context.Context, id string, summary string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedID = id
	s.updatedText = summary
	return nil
}

func (s *fakeStore) ListChunksByIndex(_ context.Context, filter domain.ChunkFilter, limit int) ([]domain.Chunk, error) {
	s.listCalls++
	s.lastFilter = filter
	s.lastLimit = limit
	if s.chunkErr != nil {
		return nil, s.chunkErr
	}
	return s.chunks, nil
}

func (s *fakeStore) ResolveFilenames(_ context.Context, ids []string) (map[string]string, error) {
	if s.filenames != nil {
		return s.filenames, nil
	}
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		out[id] = id + ".pdf"
	}
	return out, nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
	inputs []string
	failAt int // 1-based call index that errors, 0 means never
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	e.inputs = append(e.inputs, text)
	if e.err != nil && (e.failAt == 0 || e.calls == e.failAt) {
		return nil, e.err
	}
	if e.vector != nil {
		return e.vector, nil
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeVectorSearcher struct {
	hits       []domain.Chunk
	err        error
	lastLimit  int
	lastFilter domain.ChunkFilter
}

func (s *fakeVectorSearcher) SearchByVector(_ context.Context, _ []float32, limit int, filter domain.ChunkFilter) ([]domain.Chunk, error) {
	s.lastLimit = limit
	s.lastFilter = filter
	return s.hits, s.err
}

type fakeLexicalSearcher struct {
	hits       []domain.Chunk
	err        error
	lastTokens []string
	calls      int
}

func (s *fakeLexicalSearcher) SearchByKeywords(_ context.Context, tokens []string, _ int, _ domain.ChunkFilter) ([]domain.Chunk, error) {
	s.calls++
	s.lastTokens = tokens
	return s.hits, s.err
}

type fakeGenerator struct {
	answer      string
	summary     string
	err         error
	answerCalls int
	lastContext string
	lastInput   string
}

func (g *fakeGenerator) GenerateAnswer(_ context.Context, _ string, contextText string) (string, error) {
	g.answerCalls++
	g.lastContext = contextText
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func (g *fakeGenerator) GenerateSummary(_ context.Context, text string) (string, error) {
	g.lastInput = text
	if g.err != nil {
		return "", g.err
	}
	return g.summary, nil
}

type fakeSpool struct {
	path     string
	err      error
	cleaned  bool
	lastName string
}

func (s *fakeSpool) Materialize(_ context.Context, filename string, _ io.Reader) (string, func(), error) {
	s.lastName = filename
	if s.err != nil {
		return "", nil, s.err
	}
	return s.path, func() { s.cleaned = true }, nil
}

type fakeExtractor struct {
	text     *domain.ExtractedText
	err      error
	lastPath string
}

func (e *fakeExtractor) Extract(_ context.Context, path string) (*domain.ExtractedText, error) {
	e.lastPath = path
	if e.err != nil {
		return nil, e.err
	}
	return e.text, nil
}

type fakeSegmenter struct {
	pieces []string
}

func (s *fakeSegmenter) Split(string) []string { return s.pieces }

type fakeQueue struct {
	published []string
	err       error
}

func (q *fakeQueue) PublishDocumentIngested(_ context.Context, documentID string) error {
	if q.err != nil {
		return q.err
	}
	q.published = append(q.published, documentID)
	return nil
}

func (q *fakeQueue) SubscribeDocumentIngested(context.Context, func(context.Context, string) error) error {
	return nil
}

func chunkN(n int) domain.Chunk {
	return domain.Chunk{
		ID:         fmt.Sprintf("chunk-%d", n),
		DocumentID: "doc-1",
		Text:       fmt.Sprintf("text %d", n),
		Index:      n,
	}
}

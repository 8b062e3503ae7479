package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/documind/documind/internal/core/domain"
	"github.com/documind/documind/internal/core/ports"
)

const (
	defaultVectorTopK        = 10
	defaultKeywordTopK       = 10
	defaultFusionLimit       = 8
	defaultSummaryChunkLimit = 50
	defaultKeywordMaxTokens  = 5
	defaultKeywordMinLength  = 3
)

// RetrievalParams are the fixed retrieval constants, injected at
// construction rather than read from globals.
type RetrievalParams struct {
	VectorTopK        int
	KeywordTopK       int
	FusionLimit       int
	SummaryChunkLimit int
	KeywordMaxTokens  int
	KeywordMinLength  int
}

func (p RetrievalParams) normalize() RetrievalParams {
	out := p
	if out.VectorTopK <= 0 {
		out.VectorTopK = defaultVectorTopK
	}
	if out.KeywordTopK <= 0 {
		out.KeywordTopK = defaultKeywordTopK
	}
	if out.FusionLimit <= 0 {
		out.FusionLimit = defaultFusionLimit
	}
	if out.SummaryChunkLimit <= 0 {
		out.SummaryChunkLimit = defaultSummaryChunkLimit
	}
	if out.KeywordMaxTokens <= 0 {
		out.KeywordMaxTokens = defaultKeywordMaxTokens
	}
	if out.KeywordMinLength <= 0 {
		out.KeywordMinLength = defaultKeywordMinLength
	}
	return out
}

type AnswerDocumentsUseCase struct {
	embedder  ports.Embedder
	vectors   ports.VectorSearcher
	lexical   ports.LexicalSearcher
	store     ports.DocumentStore
	generator ports.AnswerGenerator
	params    RetrievalParams
}

func NewAnswerDocumentsUseCase(
	embedder ports.Embedder,
	vectors ports.VectorSearcher,
	lexical ports.LexicalSearcher,
	store ports.DocumentStore,
	generator ports.AnswerGenerator,
	params RetrievalParams,
) *AnswerDocumentsUseCase {
	return &AnswerDocumentsUseCase{
		embedder:  embedder,
		vectors:   vectors,
		lexical:   lexical,
		store:     store,
		generator: generator,
		params:    params.normalize(),
	}
}

// Ask answers a question over the ingested corpus. Summary-intent questions
// read the corpus in document order; targeted questions go through hybrid
// vector+keyword retrieval. Empty retrieval short-circuits to the fixed
// not-found payload without touching the generator.
func (uc *AnswerDocumentsUseCase) Ask(ctx context.Context, question string, documentID string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ask", errors.New("question is empty"))
	}

	filter := domain.ChunkFilter{DocumentID: documentID}
	mode := classifyQuestion(question)

	var (
		selected []domain.Chunk
		err      error
	)
	switch mode {
	case domain.ModeSummary:
		selected, err = uc.store.ListChunksByIndex(ctx, filter, uc.params.SummaryChunkLimit)
		if err != nil {
			return nil, fmt.Errorf("fetch summary chunks: %w", err)
		}
	default:
		selected, err = uc.retrieve(ctx, question, filter)
		if err != nil {
			return nil, err
		}
	}

	if len(selected) == 0 {
		return domain.NotFoundAnswer(mode), nil
	}

	contextText := buildContext(selected)
	answerText, err := uc.generator.GenerateAnswer(ctx, question, contextText)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	sources := distinctDocumentIDs(selected)
	filenames, err := uc.resolveFilenames(ctx, sources)
	if err != nil {
		return nil, err
	}

	return &domain.Answer{
		Text:            answerText,
		Sources:         sources,
		SourceFilenames: filenames,
		Mode:            mode,
	}, nil
}

// retrieve runs both candidate searches and fuses them vector-first.
func (uc *AnswerDocumentsUseCase) retrieve(ctx context.Context, question string, filter domain.ChunkFilter) ([]domain.Chunk, error) {
	queryVector, err := uc.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	vectorHits, err := uc.vectors.SearchByVector(ctx, queryVector, uc.params.VectorTopK, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	var keywordHits []domain.Chunk
	tokens := tokenizeQuestion(question, uc.params.KeywordMaxTokens, uc.params.KeywordMinLength)
	if len(tokens) > 0 {
		keywordHits, err = uc.lexical.SearchByKeywords(ctx, tokens, uc.params.KeywordTopK, filter)
		if err != nil {
			return nil, fmt.Errorf("keyword search: %w", err)
		}
	}

	return fuseVectorFirst(vectorHits, keywordHits, uc.params.FusionLimit), nil
}

func (uc *AnswerDocumentsUseCase) resolveFilenames(ctx context.Context, sources []string) ([]string, error) {
	byID, err := uc.store.ResolveFilenames(ctx, sources)
	if err != nil {
		return nil, fmt.Errorf("resolve source filenames: %w", err)
	}

	out := make([]string, 0, len(sources))
	for _, id := range sources {
		if name, ok := byID[id]; ok {
			out = append(out, name)
		}
	}
	return out, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/documind/documind/internal/core/domain"
	"github.com/documind/documind/internal/core/ports"
)

type SummarizeDocumentUseCase struct {
	store      ports.DocumentStore
	generator  ports.AnswerGenerator
	chunkLimit int
}

func NewSummarizeDocumentUseCase(store ports.DocumentStore, generator ports.AnswerGenerator, chunkLimit int) *SummarizeDocumentUseCase {
	if chunkLimit <= 0 {
		chunkLimit = defaultSummaryChunkLimit
	}
	return &SummarizeDocumentUseCase{
		store:      store,
		generator:  generator,
		chunkLimit: chunkLimit,
	}
}

// SummarizeByID generates and stores a summary for an already ingested
// document from its leading chunks.
func (uc *SummarizeDocumentUseCase) SummarizeByID(ctx context.Context, documentID string) error {
	if _, err := uc.store.GetDocumentByID(ctx, documentID); err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	chunks, err := uc.store.ListChunksByIndex(ctx, domain.ChunkFilter{DocumentID: documentID}, uc.chunkLimit)
	if err != nil {
		return fmt.Errorf("load chunks: %w", err)
	}
	if len(chunks) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "summarize", errors.New("document has no chunks"))
	}

	summary, err := uc.generator.GenerateSummary(ctx, buildContext(chunks))
	if err != nil {
		return fmt.Errorf("generate summary: %w", err)
	}

	if err := uc.store.UpdateSummary(ctx, documentID, summary); err != nil {
		return fmt.Errorf("store summary: %w", err)
	}
	return nil
}

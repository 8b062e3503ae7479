package bootstrap

import (
	"context"
	"fmt"

	"github.com/documind/documind/internal/config"
	"github.com/documind/documind/internal/core/ports"
	"github.com/documind/documind/internal/core/usecase"
	"github.com/documind/documind/internal/infrastructure/chunking"
	"github.com/documind/documind/internal/infrastructure/extractor/pdf"
	"github.com/documind/documind/internal/infrastructure/extractor/plaintext"
	"github.com/documind/documind/internal/infrastructure/llm/ollama"
	"github.com/documind/documind/internal/infrastructure/queue/nats"
	"github.com/documind/documind/internal/infrastructure/repository/postgres"
	"github.com/documind/documind/internal/infrastructure/resilience"
	"github.com/documind/documind/internal/infrastructure/spool"
)

type App struct {
	Config config.Config

	Queue       ports.MessageQueue
	Store       ports.DocumentStore
	IngestUC    ports.DocumentIngestor
	QueryUC     ports.DocumentQueryService
	SummarizeUC ports.DocumentSummarizer

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	store := postgres.NewStore(db, cfg.EmbeddingDim)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	fileSpool, err := spool.New(cfg.SpoolDir)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init upload spool: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, executor)
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	splitter, err := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("init splitter: %w", err)
	}

	extractors := map[string]ports.TextExtractor{
		".pdf": pdf.NewExtractor(),
		".txt": plaintext.NewExtractor(),
	}

	ingestUC := usecase.NewIngestDocumentUseCase(fileSpool, extractors, splitter, embedder, store, queue)
	queryUC := usecase.NewAnswerDocumentsUseCase(embedder, store, store, store, generator, usecase.RetrievalParams{
		VectorTopK:        cfg.VectorTopK,
		KeywordTopK:       cfg.KeywordTopK,
		FusionLimit:       cfg.FusionLimit,
		SummaryChunkLimit: cfg.SummaryChunkLimit,
		KeywordMaxTokens:  cfg.KeywordMaxTokens,
		KeywordMinLength:  cfg.KeywordMinLength,
	})
	summarizeUC := usecase.NewSummarizeDocumentUseCase(store, generator, cfg.SummaryChunkLimit)

	return &App{
		Config: cfg,

		Queue:       queue,
		Store:       store,
		IngestUC:    ingestUC,
		QueryUC:     queryUC,
		SummarizeUC: summarizeUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

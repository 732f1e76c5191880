package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/akarasev/docsearch/internal/config"
	"github.com/akarasev/docsearch/internal/core/ports"
	"github.com/akarasev/docsearch/internal/core/usecase"
	"github.com/akarasev/docsearch/internal/infrastructure/chunking"
	"github.com/akarasev/docsearch/internal/infrastructure/embedding/ollama"
	"github.com/akarasev/docsearch/internal/infrastructure/extractor"
	"github.com/akarasev/docsearch/internal/infrastructure/extractor/htmldoc"
	"github.com/akarasev/docsearch/internal/infrastructure/extractor/pdf"
	"github.com/akarasev/docsearch/internal/infrastructure/extractor/plaintext"
	"github.com/akarasev/docsearch/internal/infrastructure/extractor/xlsx"
	"github.com/akarasev/docsearch/internal/infrastructure/queue/nats"
	"github.com/akarasev/docsearch/internal/infrastructure/repository/postgres"
	"github.com/akarasev/docsearch/internal/infrastructure/resilience"
	"github.com/akarasev/docsearch/internal/infrastructure/storage/localfs"
	"github.com/akarasev/docsearch/internal/infrastructure/tokenizer"
	"github.com/akarasev/docsearch/internal/observability/logging"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue      ports.MessageQueue
	Repo       ports.DocumentRepository
	IngestUC   ports.DocumentIngestor
	Reader     ports.DocumentReader
	ProcessUC  ports.DocumentProcessor
	RetrieveUC ports.DocumentRetriever

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx, cfg.EmbeddingDim); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	chunks := postgres.NewChunkRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig(), logger)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaEmbedModel)
	embedder := ollama.NewEmbedder(ollamaClient, executor, cfg.EmbedRateRPS)

	registry := extractor.NewRegistry(plaintext.NewExtractor(storage))
	registry.Register("application/pdf", pdf.NewExtractor(storage))
	registry.Register("text/html", htmldoc.NewExtractor(storage))
	registry.Register("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", xlsx.NewExtractor(storage))

	chunker := chunking.NewSplitter(tokenizer.New(), chunking.Config{
		ChunkSizeTokens: cfg.ChunkSize,
		OverlapTokens:   cfg.ChunkOverlap,
		SentenceAware:   cfg.ChunkSentenceAware,
	})

	ingestUC := usecase.NewIngestUseCase(repo, chunks, storage, queue, logger)
	processUC := usecase.NewProcessUseCase(repo, chunks, registry, chunker, embedder, logger)
	retrieveUC := usecase.NewRetrieveUseCase(embedder, chunks, logger, usecase.RetrieveConfig{
		TopK:            cfg.RetrievalTopK,
		CandidateFactor: cfg.RetrievalCandidateFactor,
		Fusion: usecase.FusionConfig{
			SemanticWeight: cfg.FusionSemanticWeight,
			LexicalWeight:  cfg.FusionLexicalWeight,
			K:              cfg.FusionRRFK,
		},
	})

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:      queue,
		Repo:       repo,
		IngestUC:   ingestUC,
		Reader:     ingestUC,
		ProcessUC:  processUC,
		RetrieveUC: retrieveUC,

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

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akarasev/docsearch/internal/core/domain"
	"github.com/akarasev/docsearch/internal/core/ports"
)

// ProcessUseCase turns an uploaded document into searchable chunks: extract
// text, split, embed, store. Reprocessing is idempotent: previous chunks of
// the document are replaced, never duplicated.
type ProcessUseCase struct {
	repo      ports.DocumentRepository
	chunks    ports.ChunkStore
	extractor ports.TextExtractor
	chunker   ports.Chunker
	embedder  ports.Embedder
	logger    *slog.Logger
}

func NewProcessUseCase(
	repo ports.DocumentRepository,
	chunks ports.ChunkStore,
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	embedder ports.Embedder,
	logger *slog.Logger,
) *ProcessUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessUseCase{
		repo:      repo,
		chunks:    chunks,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		logger:    logger,
	}
}

func (uc *ProcessUseCase) ProcessByID(ctx context.Context, tenantID, documentID string) (int, error) {
	if strings.TrimSpace(tenantID) == "" {
		return 0, domain.WrapError(domain.ErrTenantRequired, "process document", errors.New("empty tenant id"))
	}

	start := time.Now()
	doc, err := uc.repo.GetByID(ctx, tenantID, documentID)
	if err != nil {
		return 0, fmt.Errorf("load document: %w", err)
	}

	if err := uc.repo.UpdateStatus(ctx, tenantID, documentID, domain.StatusProcessing, ""); err != nil {
		return 0, fmt.Errorf("mark document processing: %w", err)
	}

	chunkCount, err := uc.process(ctx, doc)
	if err != nil {
		uc.logger.Error("document_processing_failed",
			"document_id", documentID,
			"tenant_id", tenantID,
			"error", err,
		)
		if stErr := uc.repo.UpdateStatus(ctx, tenantID, documentID, domain.StatusFailed, err.Error()); stErr != nil {
			uc.logger.Warn("status_update_failed", "document_id", documentID, "error", stErr)
		}
		return 0, err
	}

	if err := uc.repo.UpdateStatus(ctx, tenantID, documentID, domain.StatusReady, ""); err != nil {
		return chunkCount, fmt.Errorf("mark document ready: %w", err)
	}

	uc.logger.Info("document_processed",
		"document_id", documentID,
		"tenant_id", tenantID,
		"chunk_count", chunkCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return chunkCount, nil
}

func (uc *ProcessUseCase) process(ctx context.Context, doc *domain.Document) (int, error) {
	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("extract text: %w", err)
	}

	chunks := uc.chunker.Split(text)
	if len(chunks) == 0 {
		return 0, domain.WrapError(domain.ErrInvalidInput, "split document", errors.New("no extractable content"))
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		chunks[i].ID = uuid.NewString()
		chunks[i].DocumentID = doc.ID
		chunks[i].TenantID = doc.TenantID
		texts[i] = chunks[i].Content
	}

	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, domain.WrapError(domain.ErrInvalidInput, "embed chunks",
			fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks)))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	// Replace, not append: a rerun after a partial failure must not leave
	// stale chunks behind.
	if err := uc.chunks.DeleteByDocument(ctx, doc.TenantID, doc.ID); err != nil {
		return 0, fmt.Errorf("clear previous chunks: %w", err)
	}
	if err := uc.chunks.InsertChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("store chunks: %w", err)
	}

	return len(chunks), nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akarasev/docsearch/internal/core/domain"
	"github.com/akarasev/docsearch/internal/core/ports"
)

// IngestUseCase accepts uploads, persists the blob and the document row, and
// hands processing off to the queue. Upload is synchronous up to the publish;
// chunking and embedding happen in the worker.
type IngestUseCase struct {
	repo    ports.DocumentRepository
	chunks  ports.ChunkStore
	storage ports.ObjectStorage
	queue   ports.MessageQueue
	logger  *slog.Logger
}

func NewIngestUseCase(
	repo ports.DocumentRepository,
	chunks ports.ChunkStore,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	logger *slog.Logger,
) *IngestUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestUseCase{
		repo:    repo,
		chunks:  chunks,
		storage: storage,
		queue:   queue,
		logger:  logger,
	}
}

func (uc *IngestUseCase) Upload(
	ctx context.Context,
	tenantID, filename, mimeType string,
	body io.Reader,
) (*domain.Document, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, domain.WrapError(domain.ErrTenantRequired, "upload document", errors.New("empty tenant id"))
	}
	filename = sanitizeFilename(filename)
	if filename == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", errors.New("empty filename"))
	}

	latest, err := uc.repo.LatestVersion(ctx, tenantID, filename)
	if err != nil {
		return nil, fmt.Errorf("resolve document version: %w", err)
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Filename:  filename,
		MimeType:  mimeType,
		Version:   latest + 1,
		Status:    domain.StatusUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc.StoragePath = storageKey(doc)

	if err := uc.storage.Save(ctx, doc.StoragePath, body); err != nil {
		return nil, fmt.Errorf("save document blob: %w", err)
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		// Roll back the orphan blob; the row is the source of truth.
		if rmErr := uc.storage.Remove(ctx, doc.StoragePath); rmErr != nil {
			uc.logger.Warn("orphan_blob_cleanup_failed", "storage_path", doc.StoragePath, "error", rmErr)
		}
		return nil, fmt.Errorf("create document record: %w", err)
	}

	event := ports.IngestEvent{TenantID: doc.TenantID, DocumentID: doc.ID}
	if err := uc.queue.PublishDocumentIngested(ctx, event); err != nil {
		// The upload itself succeeded; surface the stall via status so a
		// reprocess can pick the document up later.
		uc.logger.Error("ingest_publish_failed", "document_id", doc.ID, "tenant_id", doc.TenantID, "error", err)
		if stErr := uc.repo.UpdateStatus(ctx, doc.TenantID, doc.ID, domain.StatusFailed, "ingest event publish failed"); stErr != nil {
			uc.logger.Warn("status_update_failed", "document_id", doc.ID, "error", stErr)
		}
		return nil, fmt.Errorf("publish ingest event: %w", err)
	}

	uc.logger.Info("document_uploaded",
		"document_id", doc.ID,
		"tenant_id", doc.TenantID,
		"filename", doc.Filename,
		"version", doc.Version,
	)
	return doc, nil
}

func (uc *IngestUseCase) Remove(ctx context.Context, tenantID, documentID string) error {
	if strings.TrimSpace(tenantID) == "" {
		return domain.WrapError(domain.ErrTenantRequired, "remove document", errors.New("empty tenant id"))
	}

	doc, err := uc.repo.GetByID(ctx, tenantID, documentID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	// Chunk rows cascade with the document row, so one delete removes the
	// document from both retrieval channels atomically.
	if err := uc.repo.Delete(ctx, tenantID, documentID); err != nil {
		return fmt.Errorf("delete document record: %w", err)
	}

	if err := uc.storage.Remove(ctx, doc.StoragePath); err != nil {
		// Best effort: the blob is unreachable once the row is gone.
		uc.logger.Warn("blob_remove_failed", "storage_path", doc.StoragePath, "error", err)
	}

	uc.logger.Info("document_removed", "document_id", documentID, "tenant_id", tenantID)
	return nil
}

func (uc *IngestUseCase) GetByID(ctx context.Context, tenantID, id string) (*domain.Document, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, domain.WrapError(domain.ErrTenantRequired, "get document", errors.New("empty tenant id"))
	}
	return uc.repo.GetByID(ctx, tenantID, id)
}

func storageKey(doc *domain.Document) string {
	return path.Join(doc.TenantID, fmt.Sprintf("%s-v%d-%s", doc.ID, doc.Version, doc.Filename))
}

// sanitizeFilename strips any path components and characters that would be
// unsafe in a storage key.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}

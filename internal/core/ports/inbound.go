package ports

import (
	"context"
	"io"

	"github.com/akarasev/docsearch/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, tenantID, filename, mimeType string, body io.Reader) (*domain.Document, error)
	Remove(ctx context.Context, tenantID, documentID string) error
}

// DocumentRetriever is the inbound contract for hybrid retrieval.
type DocumentRetriever interface {
	Retrieve(ctx context.Context, query string, topK int, filter domain.SearchFilter, metrics RetrievalMetrics) ([]domain.SearchResult, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, tenantID, id string) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document
// processing. ProcessByID reports how many chunks the document produced.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, tenantID, documentID string) (int, error)
}

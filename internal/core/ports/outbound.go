package ports

import (
	"context"
	"io"
	"time"

	"github.com/akarasev/docsearch/internal/core/domain"
)

// DocumentRepository persists and reads document state. Every read and
// write is scoped to one tenant.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Document, error)
	LatestVersion(ctx context.Context, tenantID, filename string) (int, error)
	UpdateStatus(ctx context.Context, tenantID, id string, status domain.DocumentStatus, errMessage string) error
	Delete(ctx context.Context, tenantID, id string) error
}

// ChunkRecord is a hydrated chunk row: chunk fields joined with the
// provenance of the owning document.
type ChunkRecord struct {
	Chunk           domain.Chunk
	DocumentName    string
	DocumentVersion int
}

// ChunkStore is the persistence boundary of the retrieval core: appends of
// immutable chunk rows at ingest time, the two ranked query primitives, and
// a keyed fetch for hydration. All four enforce the tenant filter.
type ChunkStore interface {
	InsertChunks(ctx context.Context, chunks []domain.Chunk) error
	DeleteByDocument(ctx context.Context, tenantID, documentID string) error

	// SearchVector returns up to limit chunk refs ordered by cosine
	// similarity (1 - cosine distance) descending, restricted to chunks of
	// ready documents with a non-null embedding.
	SearchVector(ctx context.Context, queryVector []float32, limit int, filter domain.SearchFilter) ([]domain.RankedRef, error)

	// SearchLexical returns up to limit chunk refs ordered by a
	// cover-density full-text rank, restricted identically to SearchVector.
	// Chunks matching no query term are excluded, not ranked last.
	SearchLexical(ctx context.Context, queryText string, limit int, filter domain.SearchFilter) ([]domain.RankedRef, error)

	// FetchByIDs resolves chunk ids for the given tenant. Ids that no
	// longer exist are simply absent from the result.
	FetchByIDs(ctx context.Context, tenantID string, chunkIDs []string) ([]ChunkRecord, error)
}

// ObjectStorage stores source document blobs under tenant-scoped keys.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// IngestEvent is the message published when a document upload completes.
type IngestEvent struct {
	TenantID   string `json:"tenant_id"`
	DocumentID string `json:"document_id"`
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, event IngestEvent) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, IngestEvent) error) error
}

// TextExtractor extracts plain text from a stored document, dispatching on
// the detected content type.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// Embedder builds vectors for chunk batches and query text. Output order
// matches input order, one vector per input string.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Tokenizer is the token measurement boundary used by chunking. It must be
// deterministic and stable within one process lifetime; swapping the
// tokenizer mid-corpus invalidates stored token counts.
type Tokenizer interface {
	Encode(text string) []int
	Decode(ids []int) string
	Count(text string) int
}

// Chunker splits extracted text into bounded, overlapping chunk drafts.
type Chunker interface {
	Split(text string) []domain.Chunk
}

// RetrievalMetrics is a scoped metrics sink passed into retrieval calls,
// replacing any process-wide collector so retrieval stays independently
// testable.
type RetrievalMetrics interface {
	ObserveChannel(channel string, duration time.Duration, err error)
	ObserveRetrieval(resultCount int, duration time.Duration, degraded bool)
}

// NopRetrievalMetrics discards all observations.
type NopRetrievalMetrics struct{}

func (NopRetrievalMetrics) ObserveChannel(string, time.Duration, error) {}
func (NopRetrievalMetrics) ObserveRetrieval(int, time.Duration, bool)   {}

package usecase

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/akarasev/docsearch/internal/core/domain"
	"github.com/akarasev/docsearch/internal/core/ports"
)

type fakeEmbedder struct {
	embedFn      func(ctx context.Context, texts []string) ([][]float32, error)
	embedQueryFn func(ctx context.Context, text string) ([]float32, error)
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.embedFn == nil {
		out := make([][]float32, len(texts))
		for i := range out {
			out[i] = []float32{0.1, 0.2}
		}
		return out, nil
	}
	return f.embedFn(ctx, texts)
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if f.embedQueryFn == nil {
		return []float32{0.1, 0.2}, nil
	}
	return f.embedQueryFn(ctx, text)
}

type fakeChunkStore struct {
	insertFn  func(ctx context.Context, chunks []domain.Chunk) error
	deleteFn  func(ctx context.Context, tenantID, documentID string) error
	vectorFn  func(ctx context.Context, queryVector []float32, limit int, filter domain.SearchFilter) ([]domain.RankedRef, error)
	lexicalFn func(ctx context.Context, queryText string, limit int, filter domain.SearchFilter) ([]domain.RankedRef, error)
	fetchFn   func(ctx context.Context, tenantID string, chunkIDs []string) ([]ports.ChunkRecord, error)

	inserted []domain.Chunk
	deleted  []string
}

func (f *fakeChunkStore) InsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	f.inserted = append(f.inserted, chunks...)
	if f.insertFn != nil {
		return f.insertFn(ctx, chunks)
	}
	return nil
}

func (f *fakeChunkStore) DeleteByDocument(ctx context.Context, tenantID, documentID string) error {
	f.deleted = append(f.deleted, documentID)
	if f.deleteFn != nil {
		return f.deleteFn(ctx, tenantID, documentID)
	}
	return nil
}

func (f *fakeChunkStore) SearchVector(ctx context.Context, queryVector []float32, limit int, filter domain.SearchFilter) ([]domain.RankedRef, error) {
	if f.vectorFn == nil {
		return nil, nil
	}
	return f.vectorFn(ctx, queryVector, limit, filter)
}

func (f *fakeChunkStore) SearchLexical(ctx context.Context, queryText string, limit int, filter domain.SearchFilter) ([]domain.RankedRef, error) {
	if f.lexicalFn == nil {
		return nil, nil
	}
	return f.lexicalFn(ctx, queryText, limit, filter)
}

func (f *fakeChunkStore) FetchByIDs(ctx context.Context, tenantID string, chunkIDs []string) ([]ports.ChunkRecord, error) {
	if f.fetchFn == nil {
		out := make([]ports.ChunkRecord, 0, len(chunkIDs))
		for i, id := range chunkIDs {
			out = append(out, ports.ChunkRecord{
				Chunk: domain.Chunk{
					ID:         id,
					DocumentID: "doc-1",
					TenantID:   tenantID,
					Index:      i,
					Content:    "content of " + id,
				},
				DocumentName:    "report.pdf",
				DocumentVersion: 1,
			})
		}
		return out, nil
	}
	return f.fetchFn(ctx, tenantID, chunkIDs)
}

type fakeDocumentRepo struct {
	createFn  func(ctx context.Context, doc *domain.Document) error
	getFn     func(ctx context.Context, tenantID, id string) (*domain.Document, error)
	versionFn func(ctx context.Context, tenantID, filename string) (int, error)
	statusFn  func(ctx context.Context, tenantID, id string, status domain.DocumentStatus, errMessage string) error
	deleteFn  func(ctx context.Context, tenantID, id string) error

	created  []*domain.Document
	statuses []domain.DocumentStatus
}

func (f *fakeDocumentRepo) Create(ctx context.Context, doc *domain.Document) error {
	f.created = append(f.created, doc)
	if f.createFn != nil {
		return f.createFn(ctx, doc)
	}
	return nil
}

func (f *fakeDocumentRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Document, error) {
	if f.getFn == nil {
		return &domain.Document{ID: id, TenantID: tenantID, Status: domain.StatusUploaded}, nil
	}
	return f.getFn(ctx, tenantID, id)
}

func (f *fakeDocumentRepo) LatestVersion(ctx context.Context, tenantID, filename string) (int, error) {
	if f.versionFn == nil {
		return 0, nil
	}
	return f.versionFn(ctx, tenantID, filename)
}

func (f *fakeDocumentRepo) UpdateStatus(ctx context.Context, tenantID, id string, status domain.DocumentStatus, errMessage string) error {
	f.statuses = append(f.statuses, status)
	if f.statusFn != nil {
		return f.statusFn(ctx, tenantID, id, status, errMessage)
	}
	return nil
}

func (f *fakeDocumentRepo) Delete(ctx context.Context, tenantID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, tenantID, id)
	}
	return nil
}

type fakeStorage struct {
	saveFn   func(ctx context.Context, key string, data io.Reader) error
	removeFn func(ctx context.Context, key string) error

	saved   []string
	removed []string
}

func (f *fakeStorage) Save(ctx context.Context, key string, data io.Reader) error {
	f.saved = append(f.saved, key)
	if f.saveFn != nil {
		return f.saveFn(ctx, key, data)
	}
	return nil
}

func (f *fakeStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(nil)), nil
}

func (f *fakeStorage) Remove(ctx context.Context, key string) error {
	f.removed = append(f.removed, key)
	if f.removeFn != nil {
		return f.removeFn(ctx, key)
	}
	return nil
}

type fakeQueue struct {
	publishFn func(ctx context.Context, event ports.IngestEvent) error

	published []ports.IngestEvent
}

func (f *fakeQueue) PublishDocumentIngested(ctx context.Context, event ports.IngestEvent) error {
	f.published = append(f.published, event)
	if f.publishFn != nil {
		return f.publishFn(ctx, event)
	}
	return nil
}

func (f *fakeQueue) SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, ports.IngestEvent) error) error {
	return nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	return f.text, f.err
}

type fakeChunker struct {
	chunks []domain.Chunk
}

func (f *fakeChunker) Split(text string) []domain.Chunk {
	return f.chunks
}

// recordingMetrics is written to by both retrieval channel goroutines, so
// it locks like the prometheus implementation does.
type recordingMetrics struct {
	mu         sync.Mutex
	channels   []string
	channelErr map[string]error
	resultN    int
	degraded   bool
	observed   bool
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{channelErr: map[string]error{}}
}

func (m *recordingMetrics) ObserveChannel(channel string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels, channel)
	m.channelErr[channel] = err
}

func (m *recordingMetrics) ObserveRetrieval(resultCount int, _ time.Duration, degraded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultN = resultCount
	m.degraded = degraded
	m.observed = true
}

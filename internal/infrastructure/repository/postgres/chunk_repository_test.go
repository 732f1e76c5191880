package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/akarasev/docsearch/internal/core/domain"
)

func newChunkRepoWithMock(t *testing.T) (*ChunkRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &ChunkRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestSearchVectorScopesToTenantAndReadyDocs(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"id", "score"}).
		AddRow("c1", 0.92).
		AddRow("c2", 0.85)

	mock.ExpectQuery(`SELECT c\.id, 1 - \(c\.embedding <=> \$1::vector\)`).
		WithArgs("[0.1,0.2]", "t1").
		WillReturnRows(rows)

	refs, err := repo.SearchVector(context.Background(), []float32{0.1, 0.2}, 10, domain.SearchFilter{TenantID: "t1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 || refs[0].ChunkID != "c1" || refs[0].Score != 0.92 {
		t.Fatalf("refs = %+v", refs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSearchLexicalWithDocumentFilter(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	mock.ExpectQuery(`SELECT c\.id, ts_rank_cd`).
		WithArgs("hybrid search", "t1", "d1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "score"}).AddRow("c3", 0.4))

	refs, err := repo.SearchLexical(context.Background(), "hybrid search", 10, domain.SearchFilter{TenantID: "t1", DocumentID: "d1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 1 || refs[0].ChunkID != "c3" {
		t.Fatalf("refs = %+v", refs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestChannelFiltersAreIdentical(t *testing.T) {
	// Both channels build their WHERE clause from chunkFilter, so checking
	// the builder covers both.
	where, args := chunkFilter(domain.SearchFilter{TenantID: "t1"}, 2)
	if !strings.Contains(where, "c.tenant_id = $2") {
		t.Fatalf("missing tenant predicate: %s", where)
	}
	if !strings.Contains(where, "d.status = 'ready'") {
		t.Fatalf("missing readiness predicate: %s", where)
	}
	if len(args) != 1 || args[0] != "t1" {
		t.Fatalf("args = %v", args)
	}

	where, args = chunkFilter(domain.SearchFilter{TenantID: "t1", DocumentID: "d9"}, 2)
	if !strings.Contains(where, "c.document_id = $3") {
		t.Fatalf("missing document predicate: %s", where)
	}
	if len(args) != 2 || args[1] != "d9" {
		t.Fatalf("args = %v", args)
	}
}

func TestInsertChunksCommitsBatch(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO chunks").
		WithArgs("c1", "d1", "t1", 0, "first", 5, false, "[0.5]", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO chunks").
		WithArgs("c2", "d1", "t1", 1, "second", 6, true, "[0.6]", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	chunks := []domain.Chunk{
		{ID: "c1", DocumentID: "d1", TenantID: "t1", Index: 0, Content: "first", TokenCount: 5, Embedding: []float32{0.5}},
		{ID: "c2", DocumentID: "d1", TenantID: "t1", Index: 1, Content: "second", TokenCount: 6, HardSplit: true, Embedding: []float32{0.6}},
	}
	if err := repo.InsertChunks(context.Background(), chunks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestFetchByIDsEmptyInput(t *testing.T) {
	repo, _, done := newChunkRepoWithMock(t)
	defer done()

	records, err := repo.FetchByIDs(context.Background(), "t1", nil)
	if err != nil || records != nil {
		t.Fatalf("records, err = %+v, %v, want nil, nil", records, err)
	}
}

func TestVectorLiteral(t *testing.T) {
	if got := vectorLiteral([]float32{0.25, -1, 3}); got != "[0.25,-1,3]" {
		t.Fatalf("vectorLiteral = %v", got)
	}
	if got := vectorLiteral(nil); got != nil {
		t.Fatalf("vectorLiteral(nil) = %v, want nil", got)
	}
}

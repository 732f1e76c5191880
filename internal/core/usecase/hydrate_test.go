package usecase

import (
	"context"
	"testing"

	"github.com/akarasev/docsearch/internal/core/domain"
	"github.com/akarasev/docsearch/internal/core/ports"
)

func TestHydratePreservesFusedOrder(t *testing.T) {
	store := &fakeChunkStore{
		fetchFn: func(_ context.Context, tenantID string, ids []string) ([]ports.ChunkRecord, error) {
			// Store returns rows in arbitrary order; hydration must reorder.
			out := make([]ports.ChunkRecord, 0, len(ids))
			for i := len(ids) - 1; i >= 0; i-- {
				out = append(out, ports.ChunkRecord{
					Chunk:           domain.Chunk{ID: ids[i], TenantID: tenantID, Content: "c-" + ids[i]},
					DocumentName:    "doc.txt",
					DocumentVersion: 2,
				})
			}
			return out, nil
		},
	}

	fused := []domain.RankedRef{
		{ChunkID: "B", Score: 0.9},
		{ChunkID: "A", Score: 0.5},
		{ChunkID: "C", Score: 0.1},
	}
	results, err := hydrateResults(context.Background(), store, "t1", fused)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantOrder := []string{"B", "A", "C"}
	for i, want := range wantOrder {
		if results[i].ChunkID != want {
			t.Fatalf("position %d = %s, want %s", i, results[i].ChunkID, want)
		}
	}
	if results[0].FusedScore != 0.9 {
		t.Fatalf("fused score not carried: %v", results[0].FusedScore)
	}
	if results[0].DocumentVersion != 2 || results[0].DocumentName != "doc.txt" {
		t.Fatalf("provenance not carried: %+v", results[0])
	}
}

func TestHydrateDropsStaleIDs(t *testing.T) {
	store := &fakeChunkStore{
		fetchFn: func(_ context.Context, tenantID string, ids []string) ([]ports.ChunkRecord, error) {
			// "gone" was deleted between ranking and hydration.
			return []ports.ChunkRecord{
				{Chunk: domain.Chunk{ID: "kept", TenantID: tenantID, Content: "still here"}},
			}, nil
		},
	}

	fused := []domain.RankedRef{
		{ChunkID: "gone", Score: 0.9},
		{ChunkID: "kept", Score: 0.5},
	}
	results, err := hydrateResults(context.Background(), store, "t1", fused)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ChunkID != "kept" {
		t.Fatalf("results = %+v, want only kept", results)
	}
}

func TestHydrateEmptyRefs(t *testing.T) {
	called := false
	store := &fakeChunkStore{
		fetchFn: func(context.Context, string, []string) ([]ports.ChunkRecord, error) {
			called = true
			return nil, nil
		},
	}
	results, err := hydrateResults(context.Background(), store, "t1", nil)
	if err != nil || len(results) != 0 {
		t.Fatalf("results, err = %+v, %v, want empty, nil", results, err)
	}
	if called {
		t.Fatal("store queried for zero refs")
	}
}

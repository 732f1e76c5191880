package usecase

import (
	"context"
	"fmt"

	"github.com/akarasev/docsearch/internal/core/domain"
	"github.com/akarasev/docsearch/internal/core/ports"
)

// hydrateResults resolves fused chunk ids into full result records in the
// exact fused order. The fetch is tenant-filtered again as defense in
// depth; ids that no longer resolve (deleted between fusion and fetch) are
// dropped silently, since ingestion and deletion run concurrently with
// queries.
func hydrateResults(
	ctx context.Context,
	store ports.ChunkStore,
	tenantID string,
	refs []domain.RankedRef,
) ([]domain.SearchResult, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ChunkID)
	}

	records, err := store.FetchByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch fused chunks: %w", err)
	}

	byID := make(map[string]ports.ChunkRecord, len(records))
	for _, record := range records {
		byID[record.Chunk.ID] = record
	}

	out := make([]domain.SearchResult, 0, len(refs))
	for _, ref := range refs {
		record, ok := byID[ref.ChunkID]
		if !ok {
			continue
		}
		out = append(out, domain.SearchResult{
			ChunkID:         record.Chunk.ID,
			DocumentID:      record.Chunk.DocumentID,
			FusedScore:      ref.Score,
			Content:         record.Chunk.Content,
			ChunkIndex:      record.Chunk.Index,
			DocumentName:    record.DocumentName,
			DocumentVersion: record.DocumentVersion,
			Location:        record.Chunk.Location,
		})
	}
	return out, nil
}

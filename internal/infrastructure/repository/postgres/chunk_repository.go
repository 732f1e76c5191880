package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/akarasev/docsearch/internal/core/domain"
	"github.com/akarasev/docsearch/internal/core/ports"
)

// ChunkRepository implements both retrieval channels over the same chunks
// table, so tenant scoping and readiness filtering are one shared predicate
// rather than two implementations kept in sync by hand.
type ChunkRepository struct {
	db *sql.DB
}

func NewChunkRepository(db *sql.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) InsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin chunk tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
INSERT INTO chunks (
	id, document_id, tenant_id, chunk_index, content, token_count, hard_split, embedding, location
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8::vector,$9)
`
	for _, ch := range chunks {
		locJSON, err := json.Marshal(ch.Location)
		if err != nil {
			return fmt.Errorf("marshal chunk location: %w", err)
		}
		_, err = tx.ExecContext(ctx, query,
			ch.ID, ch.DocumentID, ch.TenantID, ch.Index, ch.Content,
			ch.TokenCount, ch.HardSplit, vectorLiteral(ch.Embedding), locJSON,
		)
		if err != nil {
			return fmt.Errorf("insert chunk %d: %w", ch.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunk tx: %w", err)
	}
	return nil
}

func (r *ChunkRepository) DeleteByDocument(ctx context.Context, tenantID, documentID string) error {
	_, err := r.db.ExecContext(ctx, `
DELETE FROM chunks
WHERE tenant_id = $1 AND document_id = $2
`, tenantID, documentID)
	if err != nil {
		return fmt.Errorf("delete document chunks: %w", err)
	}
	return nil
}

func (r *ChunkRepository) SearchVector(ctx context.Context, queryVector []float32, limit int, filter domain.SearchFilter) ([]domain.RankedRef, error) {
	where, args := chunkFilter(filter, 2)
	query := fmt.Sprintf(`
SELECT c.id, 1 - (c.embedding <=> $1::vector) AS score
FROM chunks c
JOIN documents d ON d.id = c.document_id
WHERE %s AND c.embedding IS NOT NULL
ORDER BY c.embedding <=> $1::vector, c.id
LIMIT %d
`, where, limit)

	rows, err := r.db.QueryContext(ctx, query, append([]any{vectorLiteral(queryVector)}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()
	return scanRankedRefs(rows)
}

func (r *ChunkRepository) SearchLexical(ctx context.Context, queryText string, limit int, filter domain.SearchFilter) ([]domain.RankedRef, error) {
	where, args := chunkFilter(filter, 2)
	query := fmt.Sprintf(`
SELECT c.id, ts_rank_cd(c.content_tsv, q) AS score
FROM chunks c
JOIN documents d ON d.id = c.document_id,
	websearch_to_tsquery('simple', $1) q
WHERE %s AND c.content_tsv @@ q
ORDER BY score DESC, c.id
LIMIT %d
`, where, limit)

	rows, err := r.db.QueryContext(ctx, query, append([]any{queryText}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}
	defer rows.Close()
	return scanRankedRefs(rows)
}

func (r *ChunkRepository) FetchByIDs(ctx context.Context, tenantID string, chunkIDs []string) ([]ports.ChunkRecord, error) {
	if len(chunkIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.document_id, c.tenant_id, c.chunk_index, c.content, c.token_count, c.hard_split, c.location,
	d.filename, d.version
FROM chunks c
JOIN documents d ON d.id = c.document_id
WHERE c.tenant_id = $1 AND c.id = ANY($2)
`, tenantID, chunkIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch chunks: %w", err)
	}
	defer rows.Close()

	var out []ports.ChunkRecord
	for rows.Next() {
		var rec ports.ChunkRecord
		var locRaw []byte
		err := rows.Scan(
			&rec.Chunk.ID, &rec.Chunk.DocumentID, &rec.Chunk.TenantID, &rec.Chunk.Index,
			&rec.Chunk.Content, &rec.Chunk.TokenCount, &rec.Chunk.HardSplit, &locRaw,
			&rec.DocumentName, &rec.DocumentVersion,
		)
		if err != nil {
			return nil, fmt.Errorf("scan chunk record: %w", err)
		}
		if len(locRaw) > 0 {
			if err := json.Unmarshal(locRaw, &rec.Chunk.Location); err != nil {
				return nil, fmt.Errorf("unmarshal chunk location: %w", err)
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunk records: %w", err)
	}
	return out, nil
}

// chunkFilter builds the predicate both channels share: tenant scope plus
// only chunks of fully processed documents. argOffset is the placeholder
// number of the first filter argument.
func chunkFilter(filter domain.SearchFilter, argOffset int) (string, []any) {
	clauses := []string{
		"c.tenant_id = $" + strconv.Itoa(argOffset),
		"d.status = 'ready'",
	}
	args := []any{filter.TenantID}
	if filter.DocumentID != "" {
		clauses = append(clauses, "c.document_id = $"+strconv.Itoa(argOffset+1))
		args = append(args, filter.DocumentID)
	}
	return strings.Join(clauses, " AND "), args
}

func scanRankedRefs(rows *sql.Rows) ([]domain.RankedRef, error) {
	var out []domain.RankedRef
	for rows.Next() {
		var ref domain.RankedRef
		if err := rows.Scan(&ref.ChunkID, &ref.Score); err != nil {
			return nil, fmt.Errorf("scan ranked ref: %w", err)
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranked refs: %w", err)
	}
	return out, nil
}

// vectorLiteral renders a float32 slice in pgvector's text format. A nil
// embedding becomes SQL NULL via the any return.
func vectorLiteral(v []float32) any {
	if len(v) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

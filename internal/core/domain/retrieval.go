package domain

// SearchFilter scopes every retrieval query. TenantID is mandatory: both
// channels and the hydration fetch apply it, so a chunk excluded by one
// channel's scope can never be returned by the other.
type SearchFilter struct {
	TenantID   string `json:"tenant_id"`
	DocumentID string `json:"document_id,omitempty"`
}

// RankedRef is one element of a ranked channel or fusion output: a chunk
// identifier plus the score that produced its position. Channel scores and
// fused scores live in different units and are never compared directly.
type RankedRef struct {
	ChunkID string  `json:"chunk_id"`
	Score   float64 `json:"score"`
}

// SearchResult is built fresh on every retrieval call and discarded after
// the response; it carries no persistence. FusedScore is in fusion units
// and is not comparable across fusion runs.
type SearchResult struct {
	ChunkID         string         `json:"chunk_id"`
	DocumentID      string         `json:"document_id"`
	FusedScore      float64        `json:"fused_score"`
	Content         string         `json:"content"`
	ChunkIndex      int            `json:"chunk_index"`
	DocumentName    string         `json:"document_name"`
	DocumentVersion int            `json:"document_version"`
	Location        map[string]any `json:"location,omitempty"`
}

// Citation is derived 1:1 from a SearchResult for display. Index matches
// the [n] marker used inside generated answers.
type Citation struct {
	Index           int            `json:"index"`
	ChunkID         string         `json:"chunk_id"`
	DocumentID      string         `json:"document_id"`
	DocumentName    string         `json:"document_name"`
	DocumentVersion int            `json:"document_version"`
	Snippet         string         `json:"snippet"`
	Location        map[string]any `json:"location,omitempty"`
}

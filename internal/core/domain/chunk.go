package domain

// Chunk is a bounded, citable segment of a document's text. Chunks are
// created once by the ingestion pipeline and never mutated afterwards;
// the only write after creation is tenant-scoped deletion together with
// the owning document.
type Chunk struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"document_id"`
	TenantID   string         `json:"tenant_id"`
	Index      int            `json:"chunk_index"`
	Content    string         `json:"content"`
	TokenCount int            `json:"token_count"`
	HardSplit  bool           `json:"hard_split"`
	Embedding  []float32      `json:"-"`
	Location   map[string]any `json:"location,omitempty"`
}

// Location metadata keys. Display-only; retrieval correctness never
// depends on them. Character offsets are deliberately absent: chunk
// content is re-joined from sentences, so offsets into the source text
// would be approximations.
const (
	LocationTokenCount = "token_count"
	LocationHardSplit  = "hard_split"
)

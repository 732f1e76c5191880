package extractor

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/akarasev/docsearch/internal/core/domain"
	"github.com/akarasev/docsearch/internal/core/ports"
)

// Registry dispatches extraction on the document's declared content type.
// Unknown text/* subtypes fall back to the plaintext extractor; anything
// else is rejected as invalid input rather than silently producing garbage.
type Registry struct {
	byType   map[string]ports.TextExtractor
	fallback ports.TextExtractor
}

func NewRegistry(fallback ports.TextExtractor) *Registry {
	return &Registry{
		byType:   make(map[string]ports.TextExtractor),
		fallback: fallback,
	}
}

func (r *Registry) Register(contentType string, ex ports.TextExtractor) {
	r.byType[normalizeContentType(contentType)] = ex
}

func (r *Registry) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	contentType := normalizeContentType(doc.MimeType)

	if ex, ok := r.byType[contentType]; ok {
		return ex.Extract(ctx, doc)
	}
	if strings.HasPrefix(contentType, "text/") && r.fallback != nil {
		return r.fallback.Extract(ctx, doc)
	}
	return "", domain.WrapError(domain.ErrInvalidInput, "extract text",
		fmt.Errorf("unsupported content type %q for %s", doc.MimeType, doc.Filename))
}

func normalizeContentType(raw string) string {
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil || mediaType == "" {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return mediaType
}

package usecase

import (
	"fmt"
	"strings"

	"github.com/akarasev/docsearch/internal/core/domain"
)

// snippetRuneLimit caps citation snippets. Truncation is rune-safe so a
// multi-byte character is never cut in half.
const snippetRuneLimit = 240

// BuildCitations turns an ordered result list into 1-based citations whose
// indices match the [n] markers produced by FormatSourceBlock.
func BuildCitations(results []domain.SearchResult) []domain.Citation {
	if len(results) == 0 {
		return nil
	}
	out := make([]domain.Citation, 0, len(results))
	for i, res := range results {
		out = append(out, domain.Citation{
			Index:           i + 1,
			ChunkID:         res.ChunkID,
			DocumentID:      res.DocumentID,
			DocumentName:    res.DocumentName,
			DocumentVersion: res.DocumentVersion,
			Snippet:         truncateSnippet(res.Content, snippetRuneLimit),
			Location:        res.Location,
		})
	}
	return out
}

// FormatSourceBlock renders the results as a numbered context block for
// prompt assembly. Each entry is introduced by the same [n] marker its
// citation carries.
func FormatSourceBlock(results []domain.SearchResult) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	for i, res := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s (v%d)\n%s", i+1, res.DocumentName, res.DocumentVersion, res.Content)
	}
	return b.String()
}

// FormatReferences renders a compact reference list for display under a
// generated answer.
func FormatReferences(citations []domain.Citation) string {
	if len(citations) == 0 {
		return ""
	}
	var b strings.Builder
	for i, c := range citations {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%d] %s (v%d)", c.Index, c.DocumentName, c.DocumentVersion)
	}
	return b.String()
}

func truncateSnippet(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

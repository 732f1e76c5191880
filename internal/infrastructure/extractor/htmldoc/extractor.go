package htmldoc

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/akarasev/docsearch/internal/core/domain"
	"github.com/akarasev/docsearch/internal/core/ports"
)

type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	root, err := html.Parse(reader)
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "parse html",
			fmt.Errorf("%s: %w", doc.Filename, err))
	}

	var b strings.Builder
	collectText(root, &b)
	return strings.TrimSpace(b.String()), nil
}

// collectText walks the DOM depth-first, collecting text nodes. Script and
// style bodies are not document content and are skipped; block-ish elements
// get a newline so paragraph structure survives for the chunker.
func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "head":
			return
		}
	}
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(text)
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, b)
	}
	if n.Type == html.ElementNode && isBlockElement(n.Data) && b.Len() > 0 {
		b.WriteString("\n\n")
	}
}

func isBlockElement(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "li", "h1", "h2", "h3", "h4", "h5", "h6", "tr", "br", "pre", "blockquote":
		return true
	default:
		return false
	}
}

package plaintext

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/akarasev/docsearch/internal/core/domain"
)

type memStorage struct {
	blobs map[string][]byte
}

func (m *memStorage) Save(_ context.Context, key string, data io.Reader) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.blobs[key] = raw
	return nil
}

func (m *memStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.blobs[key])), nil
}

func (m *memStorage) Remove(context.Context, string) error { return nil }

func TestExtractTrimsWhitespace(t *testing.T) {
	storage := &memStorage{blobs: map[string][]byte{"t1/a.txt": []byte("\n  hello world \n\n")}}
	ex := NewExtractor(storage)

	text, err := ex.Extract(context.Background(), &domain.Document{StoragePath: "t1/a.txt", Filename: "a.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("text = %q", text)
	}
}

func TestExtractRejectsBinary(t *testing.T) {
	storage := &memStorage{blobs: map[string][]byte{"t1/a.bin": {0xff, 0xfe, 0x00, 0x80}}}
	ex := NewExtractor(storage)

	_, err := ex.Extract(context.Background(), &domain.Document{StoragePath: "t1/a.bin", Filename: "a.bin"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

package localfs

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveOpenRemoveRoundtrip(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if err := storage.Save(ctx, "t1/doc-v1-report.pdf", strings.NewReader("blob content")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reader, err := storage.Open(ctx, "t1/doc-v1-report.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	raw, err := io.ReadAll(reader)
	_ = reader.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "blob content" {
		t.Fatalf("content = %q", raw)
	}

	if err := storage.Remove(ctx, "t1/doc-v1-report.pdf"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := storage.Open(ctx, "t1/doc-v1-report.pdf"); err == nil {
		t.Fatal("Open() after Remove() must fail")
	}
}

func TestRejectsEscapingKeys(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	for _, key := range []string{"../outside", "..", "/etc/passwd", "t1/../../outside"} {
		if err := storage.Save(ctx, key, strings.NewReader("x")); err == nil {
			t.Errorf("Save(%q) accepted an escaping key", key)
		}
	}
}

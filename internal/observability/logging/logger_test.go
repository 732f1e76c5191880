package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"  WARN ": slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerTagsService(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "docsearch-api", "info")

	logger.Info("started", "port", "8080")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if line["service"] != "docsearch-api" {
		t.Fatalf("service = %v", line["service"])
	}
	if line["msg"] != "started" || line["port"] != "8080" {
		t.Fatalf("line = %v", line)
	}
}

func TestLoggerSuppressesBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "docsearch-worker", "error")

	logger.Info("noise")
	if buf.Len() != 0 {
		t.Fatalf("info line emitted at error level: %s", buf.String())
	}

	logger.Error("failure")
	if buf.Len() == 0 {
		t.Fatal("error line not emitted")
	}
}

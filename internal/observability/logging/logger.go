// Package logging builds the one logger shape every binary in this repo
// uses: JSON lines on stdout tagged with the emitting service.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger is the production constructor; stdout, level from config.
func NewJSONLogger(service, level string) *slog.Logger {
	return NewLogger(os.Stdout, service, level)
}

// NewLogger writes JSON log lines to w. Unknown level strings fall back
// to info rather than failing startup over a typo.
func NewLogger(w io.Writer, service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler).With("service", service)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

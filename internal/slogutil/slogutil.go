package slogutil

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger creates a text logger writing to w at the given level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewStderrLogger creates the standard CLI logger on stderr.
func NewStderrLogger(level slog.Level) *slog.Logger {
	return NewLogger(os.Stderr, level)
}

// NewDiscardLogger creates a logger that discards all output.
// Useful for tests or when logging should be completely suppressed.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}

// LevelFromVerbose maps the --verbose flag to a slog.Level.
func LevelFromVerbose(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Package logging builds the structured logger used by trackr commands.
package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// New creates a logger writing to stderr. When stderr is a terminal it uses
// slog.TextHandler for human-readable output; when piped or redirected it
// uses slog.JSONHandler so scripts can parse it. verbose lowers the level to
// Debug, which is where cache and transmogrify tracing is emitted.
func New(verbose bool) *slog.Logger {
	return NewWithWriter(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), verbose)
}

// NewWithWriter is New with an explicit destination and terminal decision.
func NewWithWriter(w io.Writer, terminal, verbose bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		options.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if terminal {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops every record. Library packages use it
// when the caller did not supply one.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

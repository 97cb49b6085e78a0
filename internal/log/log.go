// Package log configures structured logging for habitdash using log/slog.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the default slog logger for the given verbosity and returns
// it so that servers can take it as a dependency.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above, including one line per HTTP request
//
// Output is written to stderr using slog.TextHandler.
func Setup(verbose, quiet bool) *slog.Logger {
	return SetupWriter(os.Stderr, verbose, quiet)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, verbose, quiet bool) *slog.Logger {
	var level slog.Level
	switch {
	case quiet:
		level = slog.LevelWarn
	case verbose:
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

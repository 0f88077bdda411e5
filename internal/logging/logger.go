// Package logging provides structured logging for pinsync using slog.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level aliases for convenience.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Options configures the logger behavior.
type Options struct {
	// Level sets the minimum log level. Defaults to LevelInfo.
	Level slog.Level
	// Output sets the output destination. Defaults to os.Stderr.
	Output io.Writer
	// JSON enables JSON output format.
	JSON bool
	// File, when set, sends output to a size-rotated log file instead of
	// Output. Only honored by Open.
	File string
	// MaxSizeMB and MaxBackups bound the rotated file set.
	MaxSizeMB  int
	MaxBackups int
}

// New creates a new logger writing to opts.Output.
func New(opts Options) *slog.Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	}

	return slog.New(handler)
}

// Open is New plus file output: when opts.File is set the logger writes to
// a rotating file, and the returned closer must be called once logging is
// done. Without a file the closer is a no-op.
func Open(opts Options) (*slog.Logger, io.Closer) {
	if opts.File == "" {
		return New(opts), nopCloser{}
	}
	w := FileWriter(opts.File, opts.MaxSizeMB, opts.MaxBackups)
	opts.Output = w
	return New(opts), w
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// FileWriter returns a writer that appends to path, rotating it once it
// grows past maxSizeMB.
func FileWriter(path string, maxSizeMB, maxBackups int) io.WriteCloser {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if maxBackups <= 0 {
		maxBackups = 3
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *slog.Logger {
	return New(Options{Output: io.Discard})
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Common attribute keys for consistent logging across the codebase.
const (
	KeyPath      = "path"
	KeyURL       = "url"
	KeyTag       = "tag"
	KeyCount     = "count"
	KeyError     = "error"
	KeyState     = "state"
	KeyWatermark = "watermark"
)

// Path returns a slog attribute for file path logging.
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// URL returns a slog attribute for bookmark URLs.
func URL(u string) slog.Attr {
	return slog.String(KeyURL, u)
}

// Tag returns a slog attribute for the tag filter.
func Tag(t string) slog.Attr {
	return slog.String(KeyTag, t)
}

// Count returns a slog attribute for item counts.
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// State returns a slog attribute for a sync engine state.
func State(s string) slog.Attr {
	return slog.String(KeyState, s)
}

// Err returns a slog attribute for error logging.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}

// Package logging provides a configured slog logger with:
// - TTY detection for human-readable vs JSON output
// - LOG_FORMAT env var override (text/json)
// - LOG_LEVEL env var (debug/info/warn/error)
// - Source file:line info with shortened relative paths
// - Context helpers that tag log lines with the search and scrape job IDs
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ContextKey is the type of logging values stored in a context.
type ContextKey string

const (
	// SearchIDKey holds the ID of the search request being served.
	SearchIDKey ContextKey = "log_search_id"
	// JobIDKey holds the remote scrape job ID.
	JobIDKey ContextKey = "log_job_id"
)

// New creates a new configured logger writing to stdout.
// Format is determined by:
// 1. LOG_FORMAT env var (text/json)
// 2. TTY detection (text for TTY, JSON otherwise)
// Level is determined by LOG_LEVEL env var (debug/info/warn/error, default: info)
func New() *slog.Logger {
	logFormat := os.Getenv("LOG_FORMAT")
	useText := logFormat == "text" || (logFormat == "" && isatty(os.Stdout))
	return NewWithWriter(os.Stdout, useText, parseLogLevel(os.Getenv("LOG_LEVEL")))
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, useText bool, level slog.Level) *slog.Logger {
	// Get working directory for relative path calculation
	wd, _ := os.Getwd()

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if src, ok := a.Value.Any().(*slog.Source); ok {
					if rel, err := filepath.Rel(wd, src.File); err == nil {
						src.File = rel
					} else {
						src.File = filepath.Base(src.File)
					}
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if useText {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
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

// SetDefault creates a new logger and sets it as the default slog logger.
// Returns the created logger for additional use.
func SetDefault() *slog.Logger {
	logger := New()
	slog.SetDefault(logger)
	return logger
}

// WithSearchID returns a context carrying the search ID.
func WithSearchID(ctx context.Context, searchID string) context.Context {
	return context.WithValue(ctx, SearchIDKey, searchID)
}

// WithJobID returns a context carrying the scrape job ID.
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, JobIDKey, jobID)
}

// GetSearchID returns the search ID from ctx, or "".
func GetSearchID(ctx context.Context) string {
	id, _ := ctx.Value(SearchIDKey).(string)
	return id
}

// GetJobID returns the scrape job ID from ctx, or "".
func GetJobID(ctx context.Context) string {
	id, _ := ctx.Value(JobIDKey).(string)
	return id
}

// FromContext returns logger with search_id and job_id attributes from ctx.
// The original logger is returned when ctx carries neither.
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if ctx == nil {
		return logger
	}
	var attrs []any
	if id := GetSearchID(ctx); id != "" {
		attrs = append(attrs, "search_id", id)
	}
	if id := GetJobID(ctx); id != "" {
		attrs = append(attrs, "job_id", id)
	}
	if len(attrs) == 0 {
		return logger
	}
	return logger.With(attrs...)
}

// isatty returns true if the file is a terminal.
func isatty(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

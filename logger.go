package geolite

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
)

// Logger wraps slog.Logger with dataset specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that outputs JSON logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// LogLoad logs the outcome of loading one family.
func (l *Logger) LogLoad(ctx context.Context, family Family, info DatasetInfo, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset load failed, keeping previous dataset",
			"family", family.String(),
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "dataset loaded",
		"family", family.String(),
		"schema", info.Schema.String(),
		"records", info.RecordCount,
		"size", humanize.Bytes(uint64(info.MainBytes+info.LocationBytes)),
		"mapped", info.Mapped,
	)
}

// LogReload logs a finished reload of both families.
func (l *Logger) LogReload(ctx context.Context, trigger string, err error) {
	if err != nil {
		l.WarnContext(ctx, "reload completed with failures",
			"trigger", trigger,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "reload completed", "trigger", trigger)
}

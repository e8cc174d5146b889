// Package slogobs adapts the standard library's log/slog to the
// observability.Logger interface.
package slogobs

import (
	"context"
	"log/slog"

	"github.com/jmaren/llmwire/providers/observability"
)

// LevelTrace sits below slog.LevelDebug so trace records can be filtered
// independently of debug output.
const LevelTrace = slog.LevelDebug - 4

// Logger wraps a *slog.Logger as an observability.Logger.
type Logger struct {
	logger *slog.Logger
}

// New creates a Logger backed by the given slog logger. A nil argument falls
// back to slog.Default().
func New(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger}
}

func (l *Logger) Trace(ctx context.Context, msg string, attrs ...observability.Attribute) {
	l.log(ctx, LevelTrace, msg, attrs)
}

func (l *Logger) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	l.log(ctx, slog.LevelDebug, msg, attrs)
}

func (l *Logger) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	l.log(ctx, slog.LevelInfo, msg, attrs)
}

func (l *Logger) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	l.log(ctx, slog.LevelWarn, msg, attrs)
}

func (l *Logger) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	l.log(ctx, slog.LevelError, msg, attrs)
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, attrs []observability.Attribute) {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, slog.Any(attr.Key, attr.Value))
	}
	l.logger.Log(ctx, level, msg, args...)
}

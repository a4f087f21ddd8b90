package edstan

import (
	"io"
	"log/slog"
	"math"
	"os"
)

// Logger wraps slog.Logger so pipeline stages share consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. A nil handler falls
// back to a text handler on stderr at Info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable lines to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards everything. It is the default
// for all package entry points.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))}
}

func (l *Logger) orNoop() *Logger {
	if l == nil || l.Logger == nil {
		return NoopLogger()
	}
	return l
}

// warnAll logs each response-integrity warning at Warn level.
func (l *Logger) warnAll(warnings []Warning) {
	for _, w := range warnings {
		l.Warn("response integrity", "item", w.Item, "code", string(w.Code), "detail", w.Message)
	}
}

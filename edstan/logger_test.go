package edstan

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoopLoggerDiscards(t *testing.T) {
	log := NoopLogger()
	require.False(t, log.Enabled(context.Background(), slog.LevelError))
}

func TestOrNoopOnNilLogger(t *testing.T) {
	var log *Logger
	got := log.orNoop()
	require.NotNil(t, got.Logger)
	require.False(t, got.Enabled(context.Background(), slog.LevelError))
}

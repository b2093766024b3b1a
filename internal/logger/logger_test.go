package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel checks recognized and unrecognized level names.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	level, ok := ParseLogLevel("debug")
	require.True(t, ok)
	require.Equal(t, zapcore.DebugLevel, level)

	level, ok = ParseLogLevel("  WARN ")
	require.True(t, ok)
	require.Equal(t, zapcore.WarnLevel, level)

	level, ok = ParseLogLevel("chatty")
	require.False(t, ok)
	require.Equal(t, zapcore.InfoLevel, level)
}

// TestFromContextFallsBackToGlobal ensures a bare context still yields a usable logger.
func TestFromContextFallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.NotNil(t, FromContext(context.Background()))
}

// TestWithNameRoundtrip ensures the scoped logger travels through the context.
func TestWithNameRoundtrip(t *testing.T) {
	t.Parallel()

	ctx := WithName(context.Background(), "test-component")
	require.NotNil(t, FromContext(ctx))
	require.NotSame(t, Logger(), FromContext(ctx))
}

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestSetup_File(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "cortex.log")
	logger, closeFn, err := Setup(Options{File: path, Level: "warn"})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "turn", 3)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "msg=kept")
	assert.Contains(t, string(data), "turn=3")
}

func TestSetup_VerboseForcesDebug(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "cortex.log")
	logger, closeFn, err := Setup(Options{File: path, Level: "error", Verbose: true})
	require.NoError(t, err)
	defer closeFn()

	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestSetup_NoFileDiscards(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger, closeFn, err := Setup(Options{})
	require.NoError(t, err)
	assert.NoError(t, closeFn())
	logger.Info("nowhere")
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	l := Component(New(&buf, slog.LevelInfo), "api")
	l.Info("request")
	assert.Contains(t, buf.String(), "component=api")

	// nil falls back to a discarding logger
	assert.NotNil(t, Component(nil, "chart"))
}

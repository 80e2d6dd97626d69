package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNew_FansOut(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var buf bytes.Buffer
	logger, status := New("debug", "json", &buf)

	// --- Act ---
	logger.Debug("loaded", "signals", 3)
	logger.With("file", "a.vcd").Warn("dropped events", "count", 2)

	// --- Assert ---
	require.Contains(t, buf.String(), `"msg":"loaded"`)
	require.Contains(t, buf.String(), `"msg":"dropped events"`)
	require.Equal(t, "dropped events file=a.vcd count=2", status.Last())
}

func TestStatus_IgnoresLowLevels(t *testing.T) {
	t.Parallel()

	logger, status := New("info", "text", nil)
	logger.Info("hello")
	require.Equal(t, "", status.Last())
	logger.Error("boom")
	require.Equal(t, "boom", status.Last())
}

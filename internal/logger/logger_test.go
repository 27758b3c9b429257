package logger

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		require.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", true)

	log.Info("hidden")
	log.Warn("shown", "k", "v")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)
	require.Contains(t, buf.String(), `"k":"v"`)
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, closer, err := NewFileLogger(path, "info", false)
	require.NoError(t, err)
	log.Info("to file")
	require.NoError(t, closer.Close())
	require.FileExists(t, path)
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "short", truncateString("short", 10))
	require.Equal(t, "abcdefg...", truncateString("abcdefghijklmnop", 10))
	require.Equal(t, "...", truncateString("abcdef", 3))

	got := truncateString("привет, как дела?", 8)
	require.Equal(t, "приве...", got)
	require.True(t, utf8.ValidString(got))
}

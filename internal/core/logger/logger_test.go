package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelInfo, "json", false)

	l.Debug("hidden")
	l.Info("bench finished", "exit_code", 0)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "bench finished", rec["msg"])
	assert.EqualValues(t, 0, rec["exit_code"])
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelDebug, "pretty", false)

	l.Debug("resolving revision", "ref", "HEAD")

	out := buf.String()
	assert.Contains(t, out, "resolving revision")
	assert.Contains(t, out, "HEAD")
}

func TestInitWritesLogFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logFile := filepath.Join(t.TempDir(), "logs", "devctl.log")
	l, err := Init("info", "text", logFile, false)
	require.NoError(t, err)

	l.Info("hello from test")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

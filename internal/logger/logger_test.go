package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelInfo, ParseLevel("info"))
	require.Equal(t, slog.LevelWarn, ParseLevel("Warn"))
	require.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn)

	l.Info("hidden")
	l.Warn("shown", "frame", 3)
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "msg=shown frame=3")
}

func TestSetup(t *testing.T) {
	l, f, err := Setup("", slog.LevelDebug)
	require.NoError(t, err)
	require.Nil(t, f)
	l.Error("dropped")

	path := filepath.Join(t.TempDir(), "logs", "scan.log")
	l, f, err = Setup(path, slog.LevelInfo)
	require.NoError(t, err)
	require.NotNil(t, f)

	l.Debug("not written")
	l.Info("decoded", "file", "a.gif")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "not written")
	require.Contains(t, string(data), "file=a.gif")
	require.Contains(t, string(data), "source=")
}

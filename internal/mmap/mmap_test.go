package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	want := []byte("GIF89a mapped contents")
	require.NoError(t, os.WriteFile(path, want, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, want, m.Data)
	require.Equal(t, int64(len(want)), m.Size)

	require.NoError(t, m.Close())
	require.Nil(t, m.Data)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.gif"))
	require.Error(t, err)
}

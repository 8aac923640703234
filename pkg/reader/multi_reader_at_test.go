package reader

import (
	"bytes"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func generateRandomBuffer(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	rng.Read(b)
	return b
}

func splitReaderAt(rng *rand.Rand, data []byte) *MultiReaderAt {
	var (
		readers []io.ReaderAt
		sizes   []int64
	)

	for size := 0; size < len(data); {
		sz := min(rng.Intn(1024)+1, len(data)-size)
		readers = append(readers, bytes.NewReader(data[size:size+sz]))
		sizes = append(sizes, int64(sz))
		size += sz
	}
	return NewMultiReaderAt(readers, sizes)
}

func TestMultiReaderAtRandomReads(t *testing.T) {
	const trials = 1000

	rng := rand.New(rand.NewSource(42))
	data := generateRandomBuffer(rng, 1024*10)
	r := splitReaderAt(rng, data)
	require.Equal(t, int64(len(data)), r.Size())

	buf := make([]byte, 2048)
	for i := 0; i < trials; i++ {
		offset := rng.Intn(len(data))
		readLen := rng.Intn(len(buf)) + 1

		n, err := r.ReadAt(buf[:readLen], int64(offset))

		expected := data[offset:min(offset+readLen, len(data))]
		require.Equal(t, expected, buf[:n], "trial %d", i)

		if offset+readLen > len(data) {
			require.ErrorIs(t, err, io.EOF)
		} else {
			require.NoError(t, err)
		}
	}
}

func TestMultiReaderAtBounds(t *testing.T) {
	r := NewMultiReaderAt(
		[]io.ReaderAt{bytes.NewReader([]byte("abc")), bytes.NewReader([]byte("def"))},
		[]int64{3, 3},
	)

	var buf [4]byte
	n, err := r.ReadAt(buf[:], 1)
	require.NoError(t, err)
	require.Equal(t, "bcde", string(buf[:n]))

	_, err = r.ReadAt(buf[:], 6)
	require.ErrorIs(t, err, io.EOF)

	_, err = r.ReadAt(buf[:], -1)
	require.Error(t, err)
}

func TestOpenFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "img.001")
	b := filepath.Join(dir, "img.002")
	require.NoError(t, os.WriteFile(a, []byte("hello "), 0644))
	require.NoError(t, os.WriteFile(b, []byte("world"), 0644))

	r, closeFn, err := OpenFiles(a, b)
	require.NoError(t, err)
	defer closeFn()

	data, err := io.ReadAll(io.NewSectionReader(r, 0, r.Size()))
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))

	_, _, err = OpenFiles(a, filepath.Join(dir, "missing"))
	require.Error(t, err)
}

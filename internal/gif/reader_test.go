package gif

import (
	"bytes"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

func TestReader(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x34, 0x12, 'G', 'I', 'F', 0xAB}))

	v, err := r.ReadUint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), v)

	s, err := r.ReadString(3)
	require.NoError(t, err)
	require.Equal(t, "GIF", s)
	require.Equal(t, int64(5), r.Offset())

	b, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xAB), b)

	_, err = r.ReadByte()
	require.ErrorIs(t, err, ErrTruncatedStream)
	require.Equal(t, int64(6), r.Offset())
}

func TestReader_ShortRead(t *testing.T) {
	// OneByteReader hides io.ByteReader, so NewReader buffers it.
	r := NewReader(iotest.OneByteReader(strings.NewReader("GI")))

	_, err := r.ReadString(3)
	require.ErrorIs(t, err, ErrTruncatedStream)
	require.Equal(t, int64(2), r.Offset())
}

func TestReadSubBlock(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{3, 'a', 'b', 'c', 0}))

	sb, err := ReadSubBlock(r)
	require.NoError(t, err)
	require.Equal(t, 3, sb.Len())
	require.False(t, sb.Terminator())
	require.Equal(t, []byte("abc"), sb.Data)

	sb, err = ReadSubBlock(r)
	require.NoError(t, err)
	require.True(t, sb.Terminator())

	_, err = ReadSubBlock(r)
	require.ErrorIs(t, err, ErrTruncatedStream)
}

func TestSubBlocks(t *testing.T) {
	data := subBlocks(bytes.Repeat([]byte{'x'}, 600))
	data = append(data, 0xEE)

	r := NewReader(bytes.NewReader(data))
	sb := NewSubBlocks(r)

	var sizes []int
	for sb.Next() {
		sizes = append(sizes, len(sb.Bytes()))
	}
	require.NoError(t, sb.Err())
	require.True(t, sb.Done())
	require.Equal(t, []int{255, 255, 90}, sizes)
	require.Equal(t, 3, sb.Count())

	// The terminator is consumed, the following byte is not.
	b, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xEE), b)
}

func TestSubBlocks_Truncated(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{5, 1, 2}))

	sb := NewSubBlocks(r)
	_, err := sb.ReadAll()
	require.ErrorIs(t, err, ErrTruncatedStream)
	require.False(t, sb.Done())
}

func TestSubBlocks_MissingTerminator(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{2, 1, 2}))

	err := NewSubBlocks(r).Drain()
	require.ErrorIs(t, err, ErrTruncatedStream)
}

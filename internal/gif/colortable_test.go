package gif

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadColorTable(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2, 3, 4, 5, 6}))

	ct, err := ReadColorTable(r, 2)
	require.NoError(t, err)
	require.Equal(t, ColorTable{
		{R: 1, G: 2, B: 3, A: 0xFF},
		{R: 4, G: 5, B: 6, A: 0xFF},
	}, ct)

	_, err = ReadColorTable(NewReader(bytes.NewReader([]byte{1, 2, 3})), 2)
	require.ErrorIs(t, err, ErrTruncatedStream)

	for _, size := range []int{0, 1, 3, 12, 512} {
		_, err = ReadColorTable(NewReader(bytes.NewReader(nil)), size)
		require.ErrorIs(t, err, ErrMalformedBlock, "size %d", size)
	}
}

func TestDefaultColorTable(t *testing.T) {
	ct := DefaultColorTable(1, 8)
	require.Len(t, ct, 8)
	require.Equal(t, black, ct[0])
	require.Equal(t, white, ct[1])

	// step 128 walks blue, then green, then red.
	require.Equal(t, color.NRGBA{B: 128, A: 0xFF}, ct[2])
	require.Equal(t, color.NRGBA{G: 128, A: 0xFF}, ct[3])
	require.Equal(t, color.NRGBA{G: 128, B: 128, A: 0xFF}, ct[4])
	require.Equal(t, color.NRGBA{R: 128, A: 0xFF}, ct[5])

	for _, c := range ct {
		require.Equal(t, uint8(0xFF), c.A)
	}
}

func TestDefaultColorTable_Deterministic(t *testing.T) {
	for res := -1; res <= 10; res++ {
		for _, size := range []int{-5, 0, 1, 2, 3, 16, 100, 256, 1000} {
			a := DefaultColorTable(res, size)
			b := DefaultColorTable(res, size)
			require.Equal(t, a, b)
			require.True(t, validTableSize(len(a)), "resolution %d size %d", res, size)
		}
	}
}

func TestColorTable_At(t *testing.T) {
	ct := ColorTable{red, green}
	require.Equal(t, red, ct.At(0))
	require.Equal(t, green, ct.At(1))
	require.Equal(t, red, ct.At(2))
	require.Equal(t, green, ct.At(255))

	require.Equal(t, color.NRGBA{}, ColorTable(nil).At(3))
	require.Len(t, ct.Palette(), 2)
}

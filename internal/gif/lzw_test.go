package gif

import (
	"bytes"
	"image/color"
	stdgif "image/gif"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeImage(t *testing.T, opts []Option, data ...byte) (*ImageDescriptor, error) {
	t.Helper()

	blk, err := newBlockReader(NewReader(bytes.NewReader(data)), nil, newOptions(opts)).Next()
	if err != nil {
		return nil, err
	}
	return blk.(*ImageDescriptor), nil
}

func imageBlock(f frameSpec) []byte {
	b := &gifBuilder{}
	return b.image(f).bytes()
}

func TestLZW_RoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for _, litWidth := range []int{2, 3, 5, 8} {
		for _, size := range [][2]int{{1, 1}, {7, 3}, {64, 64}, {300, 41}} {
			w, h := size[0], size[1]

			px := make([]byte, w*h)
			for i := range px {
				// Runs make the table fill up and hit the 12 bit limit.
				if i > 0 && rnd.Intn(4) != 0 {
					px[i] = px[i-1]
				} else {
					px[i] = byte(rnd.Intn(1 << litWidth))
				}
			}

			d, err := decodeImage(t, nil, imageBlock(frameSpec{width: w, height: h, minCode: litWidth, pixels: px})...)
			require.NoError(t, err)
			require.Len(t, d.Pixels, w*h)
			require.Equal(t, w*h, d.Decoded)
			require.True(t, d.Complete())
			require.Equal(t, px, d.Pixels, "litWidth %d size %dx%d", litWidth, w, h)
		}
	}
}

func TestLZW_Interlaced(t *testing.T) {
	for h := 1; h <= 19; h++ {
		w := 3
		px := make([]byte, w*h)
		for i := range px {
			px[i] = byte(i % 4)
		}

		d, err := decodeImage(t, nil, imageBlock(frameSpec{width: w, height: h, interlaced: true, pixels: px})...)
		require.NoError(t, err)
		require.True(t, d.Interlaced)
		require.Equal(t, px, d.Pixels, "height %d", h)
	}
}

func TestIndexWriter_InterlaceCoversEachRowOnce(t *testing.T) {
	for h := 1; h <= 40; h++ {
		pix := bytes.Repeat([]byte{0xFF}, h)
		w := newIndexWriter(pix, 1, h, true)

		order := make([]byte, h)
		for i := range order {
			order[i] = byte(i)
		}
		require.Equal(t, h, w.write(order))
		require.True(t, w.full())
		require.Equal(t, 0, w.write([]byte{1}))

		var want []byte
		for _, start := range []int{0, 4, 2, 1} {
			stride := map[int]int{0: 8, 4: 8, 2: 4, 1: 2}[start]
			for y := start; y < h; y += stride {
				want = append(want, byte(y))
			}
		}
		require.Len(t, want, h)

		// pix[row] holds the position at which the row was written.
		for pos, row := range want {
			require.Equal(t, byte(pos), pix[row], "height %d row %d", h, row)
		}
	}
}

func TestLZW_EarlyEnd(t *testing.T) {
	// No end code: the run terminates after four pixels of a 3x2 plane.
	data := imageBlock(frameSpec{width: 3, height: 2, lzwData: packCodes(2, 4, 1, 2, 3, 0)})

	d, err := decodeImage(t, nil, data...)
	require.NoError(t, err)
	require.Equal(t, 4, d.Decoded)
	require.False(t, d.Complete())
	require.Equal(t, []byte{1, 2, 3, 0, 0, 0}, d.Pixels)
}

func TestLZW_FullPlaneStops(t *testing.T) {
	// The plane is full after two pixels; trailing codes are skipped.
	data := imageBlock(frameSpec{width: 2, height: 1, lzwData: packCodes(2, 4, 1, 2, 3, 3, 3, 5)})
	data = append(data, sTrailer)

	r := NewReader(bytes.NewReader(data))
	blk, err := ReadNextBlock(r, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, blk.(*ImageDescriptor).Pixels)

	blk, err = ReadNextBlock(r, nil)
	require.NoError(t, err)
	require.Equal(t, KindEnd, blk.Kind())
}

func TestLZW_SkipsNonLiteralAfterClear(t *testing.T) {
	data := imageBlock(frameSpec{width: 1, height: 1, lzwData: packCodes(2, 4, 6, 1, 5)})

	d, err := decodeImage(t, nil, data...)
	require.NoError(t, err)
	require.Equal(t, []byte{1}, d.Pixels)
}

func TestLZW_ClearResetsCodeSize(t *testing.T) {
	// Grow to 4 bits, then clear and continue with 3 bit codes.
	codes := []int{4, 1, 2, 3, 0, 4, 3, 2, 5}
	data := imageBlock(frameSpec{width: 7, height: 1, lzwData: packCodes(2, codes...)})

	d, err := decodeImage(t, nil, data...)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 0, 3, 2, 0}, d.Pixels[:7])
	require.Equal(t, 6, d.Decoded)
}

func TestLZW_NoImageData(t *testing.T) {
	data := imageBlock(frameSpec{width: 2, height: 2, lzwData: packCodes(2, 4, 5)})

	_, err := decodeImage(t, nil, data...)
	require.ErrorIs(t, err, ErrMalformedBlock)
}

func TestLZW_MinCodeSizeRange(t *testing.T) {
	for _, minCode := range []int{1, 9, 12} {
		data := imageBlock(frameSpec{width: 1, height: 1, minCode: minCode, lzwData: []byte{0}})
		_, err := decodeImage(t, nil, data...)
		require.ErrorIs(t, err, ErrMalformedBlock, "min code size %d", minCode)
	}
}

func TestLZW_MaxPixels(t *testing.T) {
	data := imageBlock(frameSpec{width: 100, height: 100, pixels: make([]byte, 100*100)})

	_, err := decodeImage(t, []Option{WithMaxPixels(1000)}, data...)
	require.ErrorIs(t, err, ErrMalformedBlock)

	_, err = decodeImage(t, []Option{WithMaxPixels(0)}, data...)
	require.NoError(t, err)
}

func TestLZW_TruncatedData(t *testing.T) {
	data := imageBlock(frameSpec{width: 16, height: 16, pixels: make([]byte, 256)})

	_, err := decodeImage(t, nil, data[:len(data)-3]...)
	require.ErrorIs(t, err, ErrTruncatedStream)
}

// outOfSequence holds a 3x1 image whose third code (7) is beyond the next
// free index (6).
func outOfSequence() []byte {
	return newGIF(3, 1, []color.NRGBA{black, white, red, green}, 0).
		image(frameSpec{width: 3, height: 1, lzwData: packCodes(2, 4, 1, 7, 5)}).
		trailer()
}

func TestLZW_OutOfSequenceCode(t *testing.T) {
	anim, err := Decode(bytes.NewReader(outOfSequence()))
	require.NoError(t, err)
	require.Len(t, anim.Frames, 1)

	img := anim.Frames[0].Image
	for x := 0; x < 3; x++ {
		require.Equal(t, white, img.NRGBAAt(x, 0))
	}
}

func TestLZW_OutOfSequenceStrict(t *testing.T) {
	_, err := Decode(bytes.NewReader(outOfSequence()), WithStrictLZW(true))
	require.ErrorIs(t, err, ErrMalformedBlock)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "reading image descriptor", de.Op)

	// The reference decoder rejects the stream too.
	_, err = stdgif.DecodeAll(bytes.NewReader(outOfSequence()))
	require.Error(t, err)
}

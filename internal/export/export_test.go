package export

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	stdgif "image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/ostafen/gifreel/internal/gif"
)

var testPalette = color.Palette{
	color.RGBA{0, 0, 0, 255},
	color.RGBA{255, 255, 255, 255},
	color.RGBA{255, 0, 0, 255},
	color.RGBA{0, 0, 255, 255},
}

func testAnimation(t *testing.T, n, w, h int) *gif.Animation {
	t.Helper()

	g := &stdgif.GIF{LoopCount: 3}
	for i := 0; i < n; i++ {
		img := image.NewPaletted(image.Rect(0, 0, w, h), testPalette)
		for j := range img.Pix {
			img.Pix[j] = uint8((i + j) % len(testPalette))
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, 5*(i+1))
	}

	var buf bytes.Buffer
	require.NoError(t, stdgif.EncodeAll(&buf, g))

	anim, err := gif.Decode(&buf)
	require.NoError(t, err)
	require.Len(t, anim.Frames, n)
	return anim
}

func TestWriteFrames(t *testing.T) {
	anim := testAnimation(t, 3, 8, 4)
	dir := t.TempDir()

	var seen []string
	paths, err := WriteFrames(dir, anim.Frames, FrameOptions{
		OnFrame: func(p string) { seen = append(seen, p) },
	})
	require.NoError(t, err)
	require.Equal(t, paths, seen)
	require.Equal(t, filepath.Join(dir, "frame_0001.png"), paths[0])
	require.Equal(t, filepath.Join(dir, "frame_0003.png"), paths[2])

	f, err := os.Open(paths[1])
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, anim.Frames[1].Image.Bounds(), img.Bounds())

	r, g, b, a := img.At(0, 0).RGBA()
	r2, g2, b2, a2 := anim.Frames[1].Image.At(0, 0).RGBA()
	require.Equal(t, []uint32{r2, g2, b2, a2}, []uint32{r, g, b, a})
}

func TestWriteFramesResized(t *testing.T) {
	anim := testAnimation(t, 1, 8, 4)
	dir := t.TempDir()

	paths, err := WriteFrames(dir, anim.Frames, FrameOptions{Width: 4})
	require.NoError(t, err)

	f, err := os.Open(paths[0])
	require.NoError(t, err)
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Width)
	require.Equal(t, 2, cfg.Height)
}

func TestScaleKeepsOriginal(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 3))
	require.Same(t, img, Scale(img, 0))
	require.Same(t, img, Scale(img, 6))
}

func TestRawRoundTrip(t *testing.T) {
	anim := testAnimation(t, 3, 5, 3)

	var buf bytes.Buffer
	require.NoError(t, WriteRaw(&buf, anim))

	arch, err := ReadRaw(&buf)
	require.NoError(t, err)
	require.Equal(t, RawMagic, string(arch.Header.Magic[:]))
	require.Equal(t, uint16(5), arch.Header.Width)
	require.Equal(t, uint16(3), arch.Header.Height)
	require.Equal(t, int32(3), arch.Header.LoopCount)
	require.Len(t, arch.Frames, 3)

	for i, f := range arch.Frames {
		require.Equal(t, anim.Frames[i].Duration, f.Delay)
		require.Equal(t, anim.Frames[i].Image.Pix, f.Image.Pix)
	}
	require.Equal(t, 100*time.Millisecond, arch.Frames[1].Delay)
}

func TestRawFile(t *testing.T) {
	anim := testAnimation(t, 2, 2, 2)
	path := filepath.Join(t.TempDir(), RawFileName)
	require.NoError(t, WriteRawFile(path, anim))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	arch, err := ReadRaw(f)
	require.NoError(t, err)
	require.Len(t, arch.Frames, 2)
}

func TestReadRawRejectsGarbage(t *testing.T) {
	_, err := ReadRaw(bytes.NewReader([]byte("not an archive")))
	require.Error(t, err)
}

func rawArchive(t *testing.T, hdr RawHeader, payload []byte) []byte {
	t.Helper()
	copy(hdr.Magic[:], RawMagic)
	hdr.Version = RawVersion

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, binary.Write(enc, binary.LittleEndian, &hdr))
	_, err = enc.Write(payload)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	return buf.Bytes()
}

func TestReadRawRejectsOversizedHeader(t *testing.T) {
	data := rawArchive(t, RawHeader{Width: 0xFFFF, Height: 0xFFFF, Frames: 1000}, nil)

	_, err := ReadRaw(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrInvalidArchive)
}

func TestReadRawShortFrame(t *testing.T) {
	// delay followed by far fewer pixels than 1000x1000 requires
	data := rawArchive(t, RawHeader{Width: 1000, Height: 1000, Frames: 2}, make([]byte, 4+10))

	_, err := ReadRaw(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrInvalidArchive)
}

func TestSampleFrames(t *testing.T) {
	frames := make([]*gif.Frame, 10)
	for i := range frames {
		frames[i] = &gif.Frame{Index: i}
	}

	require.Len(t, SampleFrames(frames, 20), 10)
	require.Len(t, SampleFrames(frames, 0), 10)

	got := SampleFrames(frames, 4)
	idx := make([]int, len(got))
	for i, f := range got {
		idx[i] = f.Index
	}
	require.Equal(t, []int{0, 2, 5, 7}, idx)
}

func TestContactSheet(t *testing.T) {
	anim := testAnimation(t, 5, 8, 4)

	sheet := ContactSheet(anim, SheetOptions{Cell: 16, Cols: 2})
	require.Equal(t, image.Rect(0, 0, 32, 24), sheet.Bounds())

	// the last row has a single frame, the rest of it is background
	require.Equal(t, color.NRGBA{255, 255, 255, 255}, sheet.NRGBAAt(24, 20))

	sheet = ContactSheet(anim, SheetOptions{Cell: 16, Cols: 8, MaxFrames: 2})
	require.Equal(t, image.Rect(0, 0, 32, 8), sheet.Bounds())
}

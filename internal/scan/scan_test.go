package scan

import (
	"bytes"
	"context"
	"image"
	"image/color"
	stdgif "image/gif"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/gifreel/internal/gif"
	"github.com/ostafen/gifreel/pkg/report"
)

func encodeGIF(t *testing.T, seed byte, frames int) []byte {
	t.Helper()

	pal := color.Palette{color.Black, color.White, color.RGBA{255, 0, 0, 255}, color.RGBA{0, 255, 0, 255}}
	g := &stdgif.GIF{}
	for i := 0; i < frames; i++ {
		img := image.NewPaletted(image.Rect(0, 0, 6, 4), pal)
		for j := range img.Pix {
			img.Pix[j] = (seed + byte(i+j)) % 4
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, 10)
	}

	var buf bytes.Buffer
	require.NoError(t, stdgif.EncodeAll(&buf, g))
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestScan(t *testing.T) {
	root := t.TempDir()

	a := encodeGIF(t, 0, 2)
	writeFile(t, filepath.Join(root, "a.gif"), a)
	writeFile(t, filepath.Join(root, "sub", "copy.gif"), a)
	writeFile(t, filepath.Join(root, "b.gif"), encodeGIF(t, 1, 3))
	writeFile(t, filepath.Join(root, "broken.gif"), []byte("GIF88a garbage"))
	writeFile(t, filepath.Join(root, "huge.gif"), append(encodeGIF(t, 2, 1), make([]byte, 4096)...))
	writeFile(t, filepath.Join(root, "notes.txt"), []byte("ignored"))

	reportFile := filepath.Join(t.TempDir(), "report.xml")
	sum, err := Scan(context.Background(), []string{root}, Options{
		Workers:     2,
		MaxFileSize: 2048,
		ReportFile:  reportFile,
		DisableLog:  true,
		Out:         io.Discard,
	})
	require.NoError(t, err)

	require.Equal(t, 5, sum.Files)
	require.Equal(t, 3, sum.Decoded)
	require.Equal(t, 1, sum.Failed)
	require.Equal(t, 1, sum.Skipped)
	require.Empty(t, sum.LogFile)

	require.Len(t, sum.Duplicates, 1)
	for _, group := range sum.Duplicates {
		require.Equal(t, []string{
			filepath.Join(root, "a.gif"),
			filepath.Join(root, "sub", "copy.gif"),
		}, group)
	}

	anims, err := report.ReadFile(reportFile)
	require.NoError(t, err)
	require.Len(t, anims, 5)

	byName := make(map[string]report.Animation)
	for _, a := range anims {
		byName[filepath.Base(a.Filename)] = a
	}

	require.Equal(t, 3, byName["b.gif"].Frames.Count)
	require.Equal(t, int64(300), byName["b.gif"].DurationMS)
	require.Equal(t, filepath.Join(root, "a.gif"), byName["copy.gif"].DuplicateOf)
	require.Empty(t, byName["a.gif"].DuplicateOf)
	require.Contains(t, byName["broken.gif"].Error, "invalid format")
	require.Contains(t, byName["huge.gif"].Error, "skipped")
}

func TestScanWritesLog(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.gif"), encodeGIF(t, 0, 1))

	logDir := t.TempDir()
	sum, err := Scan(context.Background(), []string{root}, Options{
		ReportFile: filepath.Join(t.TempDir(), "r.xml"),
		LogDir:     logDir,
		Out:        io.Discard,
	})
	require.NoError(t, err)
	require.Equal(t, 1, sum.Decoded)
	require.Equal(t, logDir, filepath.Dir(sum.LogFile))

	_, err = os.Stat(sum.LogFile)
	require.NoError(t, err)
}

func TestScanCanceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.gif"), encodeGIF(t, 0, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, []string{root}, Options{
		ReportFile: filepath.Join(t.TempDir(), "r.xml"),
		DisableLog: true,
		Out:        io.Discard,
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestEntry(t *testing.T) {
	data := encodeGIF(t, 0, 2)
	anim, err := gif.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	e := Entry("x.gif", int64(len(data)), anim)
	require.Equal(t, "89a", e.Format)
	require.Equal(t, 6, e.Width)
	require.Equal(t, 4, e.Height)
	require.Equal(t, 2, e.Frames.Count)
	require.Equal(t, int64(100), e.Frames.Frames[1].DelayMS)
	require.Equal(t, gif.FormatFingerprint(anim.Fingerprint()), e.Fingerprint)
}

func TestFormatDurationHMS(t *testing.T) {
	require.Equal(t, "0.50s", FormatDurationHMS(500*time.Millisecond))
	require.Equal(t, "01:02:03", FormatDurationHMS(time.Hour+2*time.Minute+3*time.Second))
}

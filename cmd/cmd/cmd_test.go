package cmd

import (
	"bytes"
	"image"
	"image/color"
	stdgif "image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/ostafen/gifreel/pkg/report"
)

func writeTestGIF(t *testing.T, dir string) string {
	t.Helper()

	pal := color.Palette{color.Black, color.White}
	g := &stdgif.GIF{LoopCount: 0}
	for i := 0; i < 2; i++ {
		img := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
		img.Pix[i] = 1
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, 20)
	}

	var buf bytes.Buffer
	require.NoError(t, stdgif.EncodeAll(&buf, g))

	path := filepath.Join(dir, "anim.gif")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func run(t *testing.T, sub *cobra.Command, args ...string) (string, error) {
	t.Helper()

	root := &cobra.Command{Use: "gifreel"}
	root.PersistentFlags().String("log-level", "ERROR", "")
	root.PersistentFlags().Bool("strict-lzw", false, "")
	root.AddCommand(sub)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{sub.Name()}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestInfoCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeTestGIF(t, dir)
	reportFile := filepath.Join(dir, "info.xml")

	out, err := run(t, DefineInfoCommand(), path, "--report", reportFile)
	require.NoError(t, err)
	require.Contains(t, out, "GIF89a")
	require.Contains(t, out, "4x4")
	require.Contains(t, out, "forever")
	require.Contains(t, out, "Frames (2):")

	anims, err := report.ReadFile(reportFile)
	require.NoError(t, err)
	require.Len(t, anims, 1)
	require.Equal(t, 2, anims[0].Frames.Count)
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeTestGIF(t, dir)
	outDir := filepath.Join(dir, "frames")

	_, err := run(t, DefineExtractCommand(), path, "--output-dir", outDir)
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "frame_0001.png", entries[0].Name())

	// output directory must be empty
	_, err = run(t, DefineExtractCommand(), path, "--output-dir", outDir)
	require.Error(t, err)
}

func TestThumbnailCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeTestGIF(t, dir)
	output := filepath.Join(dir, "sheet.png")

	_, err := run(t, DefineThumbnailCommand(), path, "-o", output, "--cell", "8")
	require.NoError(t, err)

	info, err := os.Stat(output)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestLoopString(t *testing.T) {
	require.Equal(t, "play once", loopString(-1))
	require.Equal(t, "forever", loopString(0))
	require.Equal(t, "2 extra plays", loopString(2))
}

func TestIsReport(t *testing.T) {
	require.True(t, isReport("scan.XML"))
	require.False(t, isReport("anim.gif"))
}

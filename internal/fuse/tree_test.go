package fuse

import (
	"bytes"
	"image"
	"image/color"
	stdgif "image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/gifreel/pkg/report"
)

func writeGIF(t *testing.T, path string, frames int) {
	t.Helper()

	pal := color.Palette{color.Black, color.White}
	g := &stdgif.GIF{}
	for i := 0; i < frames; i++ {
		img := image.NewPaletted(image.Rect(0, 0, 3, 2), pal)
		img.Pix[i%len(img.Pix)] = 1
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, 10)
	}

	var buf bytes.Buffer
	require.NoError(t, stdgif.EncodeAll(&buf, g))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestFileTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.gif")
	writeGIF(t, path, 3)

	tree := NewFileTree(path)
	require.Equal(t, "anim", tree.Single.Name)

	names, err := tree.Single.Names()
	require.NoError(t, err)
	require.Equal(t, []string{"frame_0001.png", "frame_0002.png", "frame_0003.png"}, names)

	i, ok := tree.Single.Lookup("frame_0002.png")
	require.True(t, ok)
	require.Equal(t, 1, i)

	for _, name := range []string{"frame_0004.png", "frame_0000.png", "frame_2.png", "other"} {
		_, ok := tree.Single.Lookup(name)
		require.False(t, ok, name)
	}

	data, err := tree.Single.PNG(1)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	again, err := tree.Single.PNG(1)
	require.NoError(t, err)
	require.Equal(t, &data[0], &again[0])

	_, err = tree.Single.PNG(5)
	require.Error(t, err)
}

func TestFileTreeDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gif")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0644))

	tree := NewFileTree(path)
	_, err := tree.Single.Names()
	require.Error(t, err)

	_, ok := tree.Single.Lookup("frame_0001.png")
	require.False(t, ok)
}

func TestReportTree(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.gif")
	other := filepath.Join(dir, "sub", "a.gif")
	require.NoError(t, os.MkdirAll(filepath.Dir(other), 0755))
	writeGIF(t, a, 1)
	writeGIF(t, other, 2)

	tree := NewReportTree([]report.Animation{
		{Filename: a},
		{Filename: other},
		{Filename: filepath.Join(dir, "copy.gif"), DuplicateOf: a},
		{Filename: filepath.Join(dir, "broken.gif"), Error: "invalid format"},
	})
	require.Nil(t, tree.Single)
	require.Equal(t, []string{"a", "a_2"}, tree.DirNames())

	names, err := tree.Dirs["a_2"].Names()
	require.NoError(t, err)
	require.Len(t, names, 2)
}

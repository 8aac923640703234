// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package export

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"

	"github.com/ostafen/gifreel/internal/gif"
)

// FrameOptions controls WriteFrames.
type FrameOptions struct {
	// Width scales each frame to the given width, keeping the aspect
	// ratio. Zero keeps the original size.
	Width uint

	// OnFrame, when set, is called after each file is written.
	OnFrame func(path string)
}

// FrameName is the file name used for the i-th (zero based) frame.
func FrameName(i int) string {
	return fmt.Sprintf("frame_%04d.png", i+1)
}

// Scale resizes img to width using Lanczos resampling. A zero width or
// one equal to the current width returns img unchanged.
func Scale(img image.Image, width uint) image.Image {
	if width == 0 || int(width) == img.Bounds().Dx() {
		return img
	}
	return resize.Resize(width, 0, img, resize.Lanczos3)
}

// EncodePNG writes img as PNG, scaled to width when non zero.
func EncodePNG(w io.Writer, img image.Image, width uint) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, Scale(img, width))
}

// WriteFrames dumps every frame into dir as a PNG file and returns the
// written paths in frame order.
func WriteFrames(dir string, frames []*gif.Frame, opts FrameOptions) ([]string, error) {
	paths := make([]string, 0, len(frames))
	for i, f := range frames {
		path := filepath.Join(dir, FrameName(i))
		if err := writePNG(path, f.Image, opts.Width); err != nil {
			return paths, fmt.Errorf("frame %d: %w", i, err)
		}

		paths = append(paths, path)
		if opts.OnFrame != nil {
			opts.OnFrame(path)
		}
	}
	return paths, nil
}

func writePNG(path string, img image.Image, width uint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	if err := EncodePNG(bw, img, width); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

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
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/ostafen/gifreel/internal/gif"
)

const (
	DefaultSheetFrames = 16
	DefaultSheetCell   = 160
	DefaultSheetCols   = 4
)

// SheetOptions describes a contact sheet layout. Zero values select the
// defaults above.
type SheetOptions struct {
	MaxFrames  int
	Cell       int
	Cols       int
	Background color.Color
}

func (o SheetOptions) withDefaults() SheetOptions {
	if o.MaxFrames <= 0 {
		o.MaxFrames = DefaultSheetFrames
	}
	if o.Cell <= 0 {
		o.Cell = DefaultSheetCell
	}
	if o.Cols <= 0 {
		o.Cols = DefaultSheetCols
	}
	if o.Background == nil {
		o.Background = color.White
	}
	return o
}

// SampleFrames picks at most n frames spread evenly over frames, always
// keeping the first one.
func SampleFrames(frames []*gif.Frame, n int) []*gif.Frame {
	if n <= 0 || len(frames) <= n {
		return frames
	}

	out := make([]*gif.Frame, n)
	for i := range out {
		out[i] = frames[i*len(frames)/n]
	}
	return out
}

// ContactSheet lays out a sample of the frames in a grid of cells of
// equal size, each frame scaled to fit its cell.
func ContactSheet(anim *gif.Animation, opts SheetOptions) *image.NRGBA {
	opts = opts.withDefaults()
	frames := SampleFrames(anim.Frames, opts.MaxFrames)

	cellW := opts.Cell
	cellH := cellW
	if w, h := anim.Screen.Width, anim.Screen.Height; w > 0 && h > 0 {
		cellH = max(1, cellW*h/w)
	}

	cols := min(opts.Cols, max(1, len(frames)))
	rows := max(1, (len(frames)+cols-1)/cols)

	sheet := image.NewNRGBA(image.Rect(0, 0, cols*cellW, rows*cellH))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	for i, f := range frames {
		x, y := (i%cols)*cellW, (i/cols)*cellH
		cell := image.Rect(x, y, x+cellW, y+cellH)
		draw.CatmullRom.Scale(sheet, cell, f.Image, f.Image.Bounds(), draw.Over, nil)
	}
	return sheet
}

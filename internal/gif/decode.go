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
package gif

import (
	"image"
	"image/color"
	"io"
	"log/slog"
	"time"
)

// DefaultDelay is the display time of an image with no graphic control.
const DefaultDelay = 100 * time.Millisecond

type decoderState int

const (
	stateHeader decoderState = iota
	stateLogicalScreen
	stateBlockStream
	stateDone
)

// Frame is a fully composited image the size of the logical screen.
type Frame struct {
	Image    *image.NRGBA
	Duration time.Duration
	Index    int

	// Bounds is the rectangle covered by the image descriptor.
	Bounds      image.Rectangle
	Disposal    DisposalMethod
	Transparent int
	Interlaced  bool
	LocalTable  bool
	Complete    bool
}

// Metadata collects the blocks that have no visual effect.
type Metadata struct {
	Comments     []string
	PlainTexts   []*PlainText
	Applications []*Application

	// LoopCount is taken from the first looping application extension;
	// 0 means forever and -1 means the extension is absent.
	LoopCount int
	Blocks    int
}

// Decoder turns a GIF stream into composited frames, one per image
// descriptor. It reads forward only and keeps a single canvas.
type Decoder struct {
	r    *Reader
	opts *options

	state  decoderState
	err    error
	header Preamble

	// palette is the global table, or the default one when absent.
	palette ColorTable
	blocks  *BlockReader
	canvas  *image.NRGBA
	pending *GraphicControl

	frames int
	meta   Metadata
}

func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{
		r:    NewReader(r),
		opts: newOptions(opts),
		meta: Metadata{LoopCount: -1},
	}
}

// Header parses everything up to the first block. It is called by
// NextFrame when needed.
func (d *Decoder) Header() (*Preamble, error) {
	for d.err == nil && d.state < stateBlockStream {
		d.err = d.step()
	}
	if d.err != nil {
		return nil, d.err
	}
	return &d.header, nil
}

func (d *Decoder) step() error {
	switch d.state {
	case stateHeader:
		version, err := readHeader(d.r)
		if err != nil {
			return wrapError("reading header", d.r.Offset(), -1, err)
		}
		d.header.Version = version
		d.state = stateLogicalScreen

	case stateLogicalScreen:
		screen, err := readLogicalScreen(d.r)
		if err != nil {
			return wrapError("reading logical screen", d.r.Offset(), -1, err)
		}
		d.header.Screen = *screen

		if area := screen.Width * screen.Height; area > d.opts.maxPixels {
			return wrapError("reading logical screen", d.r.Offset(), -1,
				malformed("screen of %dx%d pixels exceeds limit of %d", screen.Width, screen.Height, d.opts.maxPixels))
		}

		if screen.GlobalColorTable {
			t, err := ReadColorTable(d.r, screen.GlobalColorTableSize)
			if err != nil {
				return wrapError("reading global color table", d.r.Offset(), -1, err)
			}
			d.header.GlobalColorTable = t
			d.palette = t
		} else {
			d.palette = DefaultColorTable(screen.ColorResolution, 1<<screen.ColorResolution)
		}

		d.canvas = image.NewNRGBA(image.Rect(0, 0, screen.Width, screen.Height))
		d.blocks = newBlockReader(d.r, &d.header.Screen, d.opts)
		d.state = stateBlockStream

		d.opts.logger.Debug("logical screen",
			slog.String("version", d.header.Version),
			slog.Int("width", screen.Width),
			slog.Int("height", screen.Height),
			slog.Bool("global_table", screen.GlobalColorTable),
		)
	}
	return nil
}

// NextFrame returns the next composited frame, or io.EOF after the
// trailer. A stream whose trailer follows no image fails with
// ErrNoFramesDecoded.
func (d *Decoder) NextFrame() (*Frame, error) {
	if _, err := d.Header(); err != nil {
		return nil, err
	}
	if d.state == stateDone {
		return nil, io.EOF
	}

	for {
		blk, err := d.blocks.Next()
		if err != nil {
			d.err = err
			return nil, err
		}
		d.meta.Blocks = d.blocks.Index()

		switch b := blk.(type) {
		case *GraphicControl:
			d.pending = b
		case *ImageDescriptor:
			return d.composite(b), nil
		case *Comment:
			d.meta.Comments = append(d.meta.Comments, b.Text)
		case *PlainText:
			d.meta.PlainTexts = append(d.meta.PlainTexts, b)
		case *Application:
			d.meta.Applications = append(d.meta.Applications, b)
			if b.LoopCount >= 0 && d.meta.LoopCount < 0 {
				d.meta.LoopCount = b.LoopCount
			}
		case Ignore:
		case End:
			d.state = stateDone
			if d.frames == 0 {
				d.err = &DecodeError{
					Op:     "decoding frames",
					Offset: d.r.Offset(),
					Block:  -1,
					Err:    ErrNoFramesDecoded,
				}
				return nil, d.err
			}
			return nil, io.EOF
		}
	}
}

// Metadata returns what has been collected so far.
func (d *Decoder) Metadata() Metadata {
	return d.meta
}

// Offset is the number of stream bytes consumed so far. Once NextFrame
// has returned io.EOF it is the length of the stream, trailer included.
func (d *Decoder) Offset() int64 {
	return d.r.Offset()
}

func (d *Decoder) composite(desc *ImageDescriptor) *Frame {
	gc := d.pending
	d.pending = nil

	table := desc.LocalColorTable
	if table == nil {
		table = d.palette
	}

	f := &Frame{
		Duration:    DefaultDelay,
		Index:       d.frames,
		Bounds:      desc.Rect(),
		Disposal:    DisposalUnspecified,
		Transparent: -1,
		Interlaced:  desc.Interlaced,
		LocalTable:  desc.LocalColorTable != nil,
		Complete:    desc.Complete(),
	}
	if gc != nil {
		f.Duration = gc.Duration()
		f.Disposal = gc.Disposal
		f.Transparent = gc.Transparent
	}

	f.Image = cloneNRGBA(d.canvas)
	overlay(f.Image, desc, table, f.Transparent)

	switch f.Disposal {
	case DisposalUnspecified, DisposalNone:
		copy(d.canvas.Pix, f.Image.Pix)
	case DisposalBackground:
		fill(d.canvas, desc.Rect(), d.background(f.Transparent))
	case DisposalPrevious:
	}

	d.frames++
	d.opts.logger.Debug("frame composited",
		slog.Int("index", f.Index),
		slog.String("bounds", f.Bounds.String()),
		slog.String("disposal", f.Disposal.String()),
		slog.Duration("delay", f.Duration),
	)
	return f
}

// background is the color a RestoreBackground disposal paints with.
func (d *Decoder) background(transparent int) color.NRGBA {
	bg := d.header.Screen.BackgroundIndex
	if bg == transparent {
		return color.NRGBA{}
	}
	return d.palette.At(bg)
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

// overlay maps the index plane of desc through table onto dst, clipped to
// the bounds of dst. Transparent indices leave dst unchanged.
func overlay(dst *image.NRGBA, desc *ImageDescriptor, table ColorTable, transparent int) {
	r := desc.Rect().Intersect(dst.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := desc.Pixels[(y-desc.Top)*desc.Width:]
		row := dst.Pix[dst.PixOffset(r.Min.X, y):]
		for x := r.Min.X; x < r.Max.X; x++ {
			idx := int(src[x-desc.Left])
			if idx != transparent {
				c := table.At(idx)
				row[0], row[1], row[2], row[3] = c.R, c.G, c.B, c.A
			}
			row = row[4:]
		}
	}
}

func fill(dst *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(dst.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := dst.Pix[dst.PixOffset(r.Min.X, y):]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[0], row[1], row[2], row[3] = c.R, c.G, c.B, c.A
			row = row[4:]
		}
	}
}

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
	"bytes"
	"encoding/binary"
	"image"
	"log/slog"
)

const (
	minLZWCodeSize = 2
	maxLZWCodeSize = 8
)

// ImageDescriptor is one image of the stream together with its decoded
// index plane.
type ImageDescriptor struct {
	Left, Top     int
	Width, Height int
	Interlaced    bool
	Sorted        bool

	// LocalColorTable is nil when the image uses the global table.
	LocalColorTable ColorTable
	MinCodeSize     int

	// Pixels has Width*Height entries in row-major order. Only Decoded of
	// them were produced by the LZW stream; the rest are zero.
	Pixels  []byte
	Decoded int
}

// Rect returns the image rectangle in logical screen coordinates.
func (d *ImageDescriptor) Rect() image.Rectangle {
	return image.Rect(d.Left, d.Top, d.Left+d.Width, d.Top+d.Height)
}

// Complete reports whether the LZW data covered the whole plane.
func (d *ImageDescriptor) Complete() bool {
	return d.Decoded == len(d.Pixels)
}

type rawDescriptor struct {
	Left, Top, Width, Height uint16
	Fields                   byte
}

func readImageDescriptor(r *Reader, screen *LogicalScreen, opts *options) (*ImageDescriptor, error) {
	var buf [9]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return nil, err
	}

	var raw rawDescriptor
	if err := binary.Read(bytes.NewReader(buf[:]), binary.LittleEndian, &raw); err != nil {
		return nil, malformed("image descriptor: %v", err)
	}

	d := &ImageDescriptor{
		Left:       int(raw.Left),
		Top:        int(raw.Top),
		Width:      int(raw.Width),
		Height:     int(raw.Height),
		Interlaced: raw.Fields&ifInterlace != 0,
		Sorted:     raw.Fields&ifSorted != 0,
	}

	// Frames reaching outside the logical screen are accepted and clipped
	// by the compositor.
	if screen != nil && (d.Left+d.Width > screen.Width || d.Top+d.Height > screen.Height) {
		opts.logger.Warn("frame bounds larger than image bounds",
			slog.String("frame", d.Rect().String()),
			slog.Int("width", screen.Width),
			slog.Int("height", screen.Height),
		)
	}

	area := d.Width * d.Height
	if area > opts.maxPixels {
		return nil, malformed("image of %dx%d pixels exceeds limit of %d", d.Width, d.Height, opts.maxPixels)
	}

	if raw.Fields&fColorTable != 0 {
		t, err := ReadColorTable(r, tableSize(raw.Fields))
		if err != nil {
			return nil, err
		}
		d.LocalColorTable = t
	}

	litWidth, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if litWidth < minLZWCodeSize || litWidth > maxLZWCodeSize {
		return nil, malformed("pixel size in decode out of range: %d", litWidth)
	}
	d.MinCodeSize = int(litWidth)

	d.Pixels = make([]byte, area)
	sb := NewSubBlocks(r)
	w := newIndexWriter(d.Pixels, d.Width, d.Height, d.Interlaced)

	n, err := newLZWDecoder(sb, d.MinCodeSize, opts).decode(w)
	if err != nil {
		return nil, err
	}
	d.Decoded = n

	// Trailing data after the end code or past a full plane.
	extra := sb.Count()
	if err := sb.Drain(); err != nil {
		return nil, err
	}
	if sb.Count() > extra {
		opts.logger.Debug("skipped trailing image data", slog.Int("chunks", sb.Count()-extra))
	}

	if n == 0 && area > 0 {
		return nil, malformed("no image data")
	}
	if n < area {
		opts.logger.Warn("image data shorter than frame",
			slog.Int("decoded", n),
			slog.Int("expected", area),
		)
	}
	return d, nil
}

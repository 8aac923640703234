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
	"image/color"
	"math/bits"
)

const (
	minTableSize = 2
	maxTableSize = 256
)

// ColorTable is a palette of opaque colors. Its length is always a power
// of two in [2, 256].
type ColorTable []color.NRGBA

// ReadColorTable reads size RGB triples.
func ReadColorTable(r *Reader, size int) (ColorTable, error) {
	if !validTableSize(size) {
		return nil, malformed("invalid color table size %d", size)
	}

	var buf [3 * maxTableSize]byte
	if err := r.ReadFull(buf[:3*size]); err != nil {
		return nil, err
	}

	t := make(ColorTable, size)
	for i := range t {
		t[i] = color.NRGBA{R: buf[3*i], G: buf[3*i+1], B: buf[3*i+2], A: 0xFF}
	}
	return t, nil
}

// DefaultColorTable synthesizes the table used when the stream carries no
// global table. Entry 0 is black, entry 1 is white and the remaining
// entries walk a blue, green, red color cube in steps of 256>>resolution.
// It never fails: resolution is clamped to [1, 8] and size to the nearest
// valid table size.
func DefaultColorTable(resolution, size int) ColorTable {
	size = clampTableSize(size)
	resolution = min(max(resolution, 1), 8)
	step := 256 >> resolution

	t := make(ColorTable, size)
	t[0] = color.NRGBA{A: 0xFF}
	t[1] = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	var r, g, b int
	for i := 2; i < size; i++ {
		b += step
		if b >= 256 {
			b = 0
			g += step
			if g >= 256 {
				g = 0
				r += step
				if r >= 256 {
					r = 0
				}
			}
		}
		t[i] = color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xFF}
	}
	return t
}

// At looks up index modulo the table size.
func (t ColorTable) At(index int) color.NRGBA {
	if len(t) == 0 {
		return color.NRGBA{}
	}
	return t[index%len(t)]
}

// Palette converts the table for use with image.Paletted.
func (t ColorTable) Palette() color.Palette {
	p := make(color.Palette, len(t))
	for i, c := range t {
		p[i] = c
	}
	return p
}

// tableSize decodes the 3-bit size exponent of a packed field.
func tableSize(fields byte) int {
	return 1 << (1 + uint(fields&fColorTableBitsMask))
}

func validTableSize(n int) bool {
	return n >= minTableSize && n <= maxTableSize && n&(n-1) == 0
}

func clampTableSize(n int) int {
	if n <= minTableSize {
		return minTableSize
	}
	if n >= maxTableSize {
		return maxTableSize
	}
	return 1 << bits.Len(uint(n-1))
}

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

// interlacePasses lists the first row and the row stride of each pass.
var interlacePasses = [4]struct{ start, stride int }{
	{0, 8},
	{4, 8},
	{2, 4},
	{1, 2},
}

// indexWriter places decoded palette indices into a width*height plane,
// following the interlaced row order when requested.
type indexWriter struct {
	pix           []byte
	width, height int
	interlaced    bool

	pass, row, col int
	written        int
}

func newIndexWriter(pix []byte, width, height int, interlaced bool) *indexWriter {
	w := &indexWriter{
		pix:        pix,
		width:      width,
		height:     height,
		interlaced: interlaced,
	}
	if width <= 0 {
		w.row = height
	}
	return w
}

// full reports whether every pixel of the plane has been written.
func (w *indexWriter) full() bool {
	return w.row >= w.height
}

// write copies as much of p as fits and returns the number of bytes used.
func (w *indexWriter) write(p []byte) int {
	n := 0
	for n < len(p) && !w.full() {
		off := w.row * w.width
		k := copy(w.pix[off+w.col:off+w.width], p[n:])
		n += k
		w.col += k
		if w.col == w.width {
			w.col = 0
			w.nextRow()
		}
	}
	w.written += n
	return n
}

func (w *indexWriter) nextRow() {
	if !w.interlaced {
		w.row++
		return
	}

	w.row += interlacePasses[w.pass].stride
	for w.row >= w.height {
		w.pass++
		if w.pass == len(interlacePasses) {
			w.row = w.height
			return
		}
		w.row = interlacePasses[w.pass].start
	}
}

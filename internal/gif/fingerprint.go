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
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the frame sequence in order. Each frame contributes
// its width, its height and its raw NRGBA pixels, so two animations with
// equal fingerprints render identically frame by frame.
func Fingerprint(frames []*Frame) uint64 {
	h := xxhash.New()

	var dim [8]byte
	for _, f := range frames {
		b := f.Image.Bounds()
		binary.LittleEndian.PutUint32(dim[:4], uint32(b.Dx()))
		binary.LittleEndian.PutUint32(dim[4:], uint32(b.Dy()))
		_, _ = h.Write(dim[:])

		rowLen := 4 * b.Dx()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := f.Image.PixOffset(b.Min.X, y)
			_, _ = h.Write(f.Image.Pix[off : off+rowLen])
		}
	}
	return h.Sum64()
}

func FormatFingerprint(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

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

import "log/slog"

const (
	maxCodeSize = 12
	tableSize4K = 1 << maxCodeSize

	noCode = -1
)

// lzwDecoder holds the whole state of one image's LZW decode: the bit
// accumulator over the sub-block run, the string table and the output
// cursor.
type lzwDecoder struct {
	sb    *SubBlocks
	chunk []byte
	pos   int
	acc   uint32
	nbits uint

	minCodeSize int
	clear, end  int
	codeSize    uint
	nextFree    int
	prev        int

	prefix [tableSize4K]uint16
	suffix [tableSize4K]byte
	first  [tableSize4K]byte
	length [tableSize4K]uint16
	stack  [tableSize4K + 1]byte

	strict bool
	warned bool
	logger *slog.Logger
}

func newLZWDecoder(sb *SubBlocks, minCodeSize int, opts *options) *lzwDecoder {
	d := &lzwDecoder{
		sb:          sb,
		minCodeSize: minCodeSize,
		clear:       1 << minCodeSize,
		end:         1<<minCodeSize + 1,
		strict:      opts.strictLZW,
		logger:      opts.logger,
	}
	for i := 0; i < d.clear; i++ {
		d.suffix[i] = byte(i)
		d.first[i] = byte(i)
		d.length[i] = 1
	}
	d.reset()
	return d
}

func (d *lzwDecoder) reset() {
	d.codeSize = uint(d.minCodeSize + 1)
	d.nextFree = d.clear + 2
	d.prev = noCode
}

// readCode returns the next code of the current width. ok is false when the
// run terminated before enough bits were available.
func (d *lzwDecoder) readCode() (code int, ok bool, err error) {
	for d.nbits < d.codeSize {
		if d.pos == len(d.chunk) {
			if !d.sb.Next() {
				return 0, false, d.sb.Err()
			}
			d.chunk, d.pos = d.sb.Bytes(), 0
		}
		d.acc |= uint32(d.chunk[d.pos]) << d.nbits
		d.pos++
		d.nbits += 8
	}
	code = int(d.acc & (1<<d.codeSize - 1))
	d.acc >>= d.codeSize
	d.nbits -= d.codeSize
	return code, true, nil
}

// expand writes the string of code into the stack and returns it.
func (d *lzwDecoder) expand(code int) []byte {
	n := int(d.length[code])
	for i := n - 1; i >= 0; i-- {
		d.stack[i] = d.suffix[code]
		code = int(d.prefix[code])
	}
	return d.stack[:n]
}

func (d *lzwDecoder) add(prev int, c byte) {
	if d.nextFree >= tableSize4K {
		return
	}
	d.prefix[d.nextFree] = uint16(prev)
	d.suffix[d.nextFree] = c
	d.first[d.nextFree] = d.first[prev]
	d.length[d.nextFree] = d.length[prev] + 1
	d.nextFree++
	if d.nextFree == 1<<d.codeSize && d.codeSize < maxCodeSize {
		d.codeSize++
	}
}

// decode fills w until the end code, a full plane or the end of the run.
// It returns the number of pixels written.
func (d *lzwDecoder) decode(w *indexWriter) (int, error) {
	for !w.full() {
		code, ok, err := d.readCode()
		if err != nil {
			return w.written, err
		}
		if !ok {
			d.logger.Debug("lzw data ended without end code", slog.Int("written", w.written))
			break
		}

		switch {
		case code == d.clear:
			d.reset()
			continue
		case code == d.end:
			return w.written, nil
		}

		if d.prev == noCode {
			if code > d.clear {
				d.logger.Warn("lzw: non-literal code after clear, skipping", slog.Int("code", code))
				continue
			}
			w.write(d.expand(code))
			d.prev = code
			continue
		}

		var out []byte
		if code < d.nextFree {
			out = d.expand(code)
			d.add(d.prev, out[0])
		} else {
			if code > d.nextFree {
				if d.strict {
					return w.written, malformed("lzw: code %d beyond next free index %d", code, d.nextFree)
				}
				if !d.warned {
					d.warned = true
					d.logger.Warn("lzw: out of sequence code, decoding as KwKwK",
						slog.Int("code", code),
						slog.Int("next", d.nextFree),
					)
				}
			}
			prev := d.expand(d.prev)
			c := prev[0]
			out = append(prev, c)
			code = d.nextFree
			d.add(d.prev, c)
		}

		w.write(out)
		d.prev = code
	}
	return w.written, nil
}

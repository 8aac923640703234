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
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

type reader interface {
	io.Reader
	io.ByteReader
}

// Reader is a forward-only byte source that counts consumed bytes.
// Short reads are reported as ErrTruncatedStream.
type Reader struct {
	r reader

	n int64
}

// NewReader adds buffering when r does not implement io.ByteReader.
func NewReader(r io.Reader) *Reader {
	if rr, ok := r.(reader); ok {
		return &Reader{r: rr}
	}
	return &Reader{r: bufio.NewReader(r)}
}

func (r *Reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, truncated(err)
	}
	r.n++
	return b, nil
}

// Read implements io.Reader without translating io.EOF.
func (r *Reader) Read(buf []byte) (int, error) {
	n, err := r.r.Read(buf)
	if n > 0 {
		r.n += int64(n)
	}
	return n, err
}

func (r *Reader) ReadFull(buf []byte) error {
	n, err := io.ReadFull(r.r, buf)
	r.n += int64(n)
	return truncated(err)
}

func (r *Reader) ReadUint16() (uint16, error) {
	var tmp [2]byte
	if err := r.ReadFull(tmp[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(tmp[:]), nil
}

func (r *Reader) ReadString(n int) (string, error) {
	buf := make([]byte, n)
	if err := r.ReadFull(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.n
}

func truncated(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrTruncatedStream, io.ErrUnexpectedEOF)
	}
	return err
}

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
package carve

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ostafen/gifreel/internal/gif"
	"github.com/ostafen/gifreel/internal/logger"
)

const (
	DefaultBufferSize = 4 * 1024 * 1024
	DefaultMaxSize    = 64 * 1024 * 1024

	sigLen = 6
)

var sigPrefix = []byte("GIF8")

// Match is a GIF stream found inside a larger image.
type Match struct {
	Offset int64
	Size   int64
	Anim   *gif.Animation
}

// Name is the file name used when the match is dumped.
func (m Match) Name() string {
	return fmt.Sprintf("f%010d.gif", m.Offset)
}

type Options struct {
	// BufferSize is the size of the window searched for signatures.
	BufferSize int

	// MaxSize bounds the number of bytes a single stream may span.
	MaxSize int64

	Logger *slog.Logger

	// Decode is passed to the decoder for every candidate.
	Decode []gif.Option
}

// Carver locates and decodes GIF streams embedded in arbitrary data,
// such as disk images.
type Carver struct {
	buf     []byte
	maxSize int64
	logger  *slog.Logger
	opts    []gif.Option
}

func New(opts Options) *Carver {
	bufSize := opts.BufferSize
	if bufSize < sigLen {
		bufSize = DefaultBufferSize
	}

	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &Carver{
		buf:     make([]byte, bufSize),
		maxSize: maxSize,
		logger:  log,
		opts:    opts.Decode,
	}
}

// Carve yields every decodable stream within the first limit bytes of r.
// Matches never overlap: the search resumes right after each stream.
func (c *Carver) Carve(r io.ReaderAt, limit int64) func(yield func(Match) bool) {
	return func(yield func(Match) bool) {
		for pos := int64(0); pos < limit; {
			n, err := r.ReadAt(c.buf[:min(int64(len(c.buf)), limit-pos)], pos)
			if err != nil && err != io.EOF {
				c.logger.Error("read failed", "offset", pos, "err", err)
				return
			}
			if n < sigLen {
				return
			}

			idx := findSignature(c.buf[:n])
			if idx < 0 {
				// keep a partial signature at the end of the window
				pos += int64(n - (sigLen - 1))
				continue
			}

			start := pos + int64(idx)
			m, ok := c.decodeAt(r, start, limit)
			if !ok {
				pos = start + 1
				continue
			}

			if !yield(m) {
				return
			}
			pos = start + m.Size
		}
	}
}

func (c *Carver) decodeAt(r io.ReaderAt, off, limit int64) (Match, bool) {
	sr := io.NewSectionReader(r, off, min(limit-off, c.maxSize))

	anim, err := gif.Decode(bufio.NewReader(sr), c.opts...)
	if err != nil {
		c.logger.Debug("candidate rejected", "offset", off, "err", err)
		return Match{}, false
	}

	c.logger.Info("stream found", "offset", off, "size", anim.Size, "frames", len(anim.Frames))
	return Match{
		Offset: off,
		Size:   anim.Size,
		Anim:   anim,
	}, true
}

// findSignature returns the index of the first complete GIF87a or GIF89a
// signature in buf, or -1.
func findSignature(buf []byte) int {
	for base := 0; ; {
		i := bytes.Index(buf[base:], sigPrefix)
		if i < 0 {
			return -1
		}

		i += base
		if i+sigLen > len(buf) {
			return -1
		}
		if (buf[i+4] == '7' || buf[i+4] == '9') && buf[i+5] == 'a' {
			return i
		}
		base = i + 1
	}
}

// Dump copies the bytes of m from r into dir and returns the file path.
func Dump(r io.ReaderAt, m Match, dir string) (string, error) {
	path := filepath.Join(dir, m.Name())

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1024*1024)
	if _, err := io.Copy(w, io.NewSectionReader(r, m.Offset, m.Size)); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return path, f.Close()
}

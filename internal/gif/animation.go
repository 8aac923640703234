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
	"errors"
	"image"
	"io"
	"os"
	"time"

	"github.com/ostafen/gifreel/internal/mmap"
)

// Animation is the fully decoded content of a stream.
type Animation struct {
	Version          string
	Screen           LogicalScreen
	GlobalColorTable ColorTable
	Frames           []*Frame

	// Size is the length in bytes of the stream, trailer included.
	Size int64

	Metadata
}

// Decode reads the whole stream. A stream with no images fails with
// ErrNoFramesDecoded.
func Decode(r io.Reader, opts ...Option) (*Animation, error) {
	d := NewDecoder(r, opts...)

	hdr, err := d.Header()
	if err != nil {
		return nil, err
	}

	anim := &Animation{
		Version:          hdr.Version,
		Screen:           hdr.Screen,
		GlobalColorTable: hdr.GlobalColorTable,
	}
	for {
		f, err := d.NextFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		anim.Frames = append(anim.Frames, f)
	}
	anim.Metadata = d.Metadata()
	anim.Size = d.Offset()
	return anim, nil
}

// DecodeFile decodes the file at path, memory mapping it when possible.
func DecodeFile(path string, opts ...Option) (*Animation, error) {
	m, err := mmap.Open(path)
	if err == nil {
		defer m.Close()
		return Decode(bytes.NewReader(m.Data), opts...)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f, opts...)
}

func (a *Animation) Bounds() image.Rectangle {
	return image.Rect(0, 0, a.Screen.Width, a.Screen.Height)
}

// TotalDuration is the sum of all frame durations.
func (a *Animation) TotalDuration() time.Duration {
	var total time.Duration
	for _, f := range a.Frames {
		total += f.Duration
	}
	return total
}

func (a *Animation) Fingerprint() uint64 {
	return Fingerprint(a.Frames)
}

func (a *Animation) Timeline() *Timeline {
	return NewTimeline(a.Frames, a.LoopCount)
}

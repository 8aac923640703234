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
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/ostafen/gifreel/internal/gif"
)

const (
	RawMagic   = "GRFA"
	RawVersion = 1

	// RawFileName is the archive name used by the extract command.
	RawFileName = "frames.rgba.zst"
)

var ErrInvalidArchive = errors.New("export: invalid raw frame archive")

// RawHeader opens a raw frame archive. It is followed by Frames records,
// each a little endian uint32 delay in milliseconds and Width*Height
// non-premultiplied RGBA pixels. The whole stream is zstd compressed.
type RawHeader struct {
	Magic     [4]byte
	Version   uint16
	Width     uint16
	Height    uint16
	Frames    uint32
	LoopCount int32
}

type rawFrameHeader struct {
	DelayMS uint32
}

// RawFrame is a single frame read back from an archive.
type RawFrame struct {
	Delay time.Duration
	Image *image.NRGBA
}

// RawArchive is the decoded content of a raw frame archive.
type RawArchive struct {
	Header RawHeader
	Frames []RawFrame
}

// WriteRaw writes anim as a zstd compressed raw frame archive.
func WriteRaw(w io.Writer, anim *gif.Animation) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	hdr := RawHeader{
		Version:   RawVersion,
		Width:     uint16(anim.Screen.Width),
		Height:    uint16(anim.Screen.Height),
		Frames:    uint32(len(anim.Frames)),
		LoopCount: int32(anim.LoopCount),
	}
	copy(hdr.Magic[:], RawMagic)

	if err := binary.Write(enc, binary.LittleEndian, &hdr); err != nil {
		enc.Close()
		return err
	}

	for _, f := range anim.Frames {
		fh := rawFrameHeader{DelayMS: uint32(f.Duration / time.Millisecond)}
		if err := binary.Write(enc, binary.LittleEndian, &fh); err != nil {
			enc.Close()
			return err
		}
		if _, err := enc.Write(f.Image.Pix); err != nil {
			enc.Close()
			return err
		}
	}
	return enc.Close()
}

// WriteRawFile writes the archive to path.
func WriteRawFile(path string, anim *gif.Animation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	if err := WriteRaw(bw, anim); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadRaw decodes an archive produced by WriteRaw.
func ReadRaw(r io.Reader) (*RawArchive, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var hdr RawHeader
	if err := binary.Read(dec, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	if string(hdr.Magic[:]) != RawMagic || hdr.Version != RawVersion {
		return nil, fmt.Errorf("%w: bad magic %q or version %d", ErrInvalidArchive, hdr.Magic[:], hdr.Version)
	}

	area := int(hdr.Width) * int(hdr.Height)
	if area > gif.DefaultMaxPixels {
		return nil, fmt.Errorf("%w: frame of %dx%d pixels exceeds limit of %d", ErrInvalidArchive, hdr.Width, hdr.Height, gif.DefaultMaxPixels)
	}

	arch := &RawArchive{
		Header: hdr,
		Frames: make([]RawFrame, 0, min(int(hdr.Frames), 1024)),
	}

	rect := image.Rect(0, 0, int(hdr.Width), int(hdr.Height))
	for i := 0; i < int(hdr.Frames); i++ {
		var fh rawFrameHeader
		if err := binary.Read(dec, binary.LittleEndian, &fh); err != nil {
			return nil, fmt.Errorf("%w: frame %d: %v", ErrInvalidArchive, i, err)
		}

		// Pixels are read before allocating the frame so that a corrupt
		// header cannot size buffers beyond the decompressed data.
		pix, err := io.ReadAll(io.LimitReader(dec, int64(area)*4))
		if err != nil {
			return nil, fmt.Errorf("%w: frame %d: %v", ErrInvalidArchive, i, err)
		}
		if len(pix) != area*4 {
			return nil, fmt.Errorf("%w: frame %d: %v", ErrInvalidArchive, i, io.ErrUnexpectedEOF)
		}

		img := &image.NRGBA{Pix: pix, Stride: 4 * rect.Dx(), Rect: rect}

		arch.Frames = append(arch.Frames, RawFrame{
			Delay: time.Duration(fh.DelayMS) * time.Millisecond,
			Image: img,
		})
	}
	return arch, nil
}

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
	"fmt"
)

const (
	signature  = "GIF"
	version87a = "87a"
	version89a = "89a"
)

// Section indicators.
const (
	sExtension       = 0x21
	sImageDescriptor = 0x2C
	sTrailer         = 0x3B
	sPadding         = 0x00
)

// Extensions.
const (
	eText           = 0x01 // Plain Text
	eGraphicControl = 0xF9 // Graphic Control
	eComment        = 0xFE // Comment
	eApplication    = 0xFF // Application
)

// Masks
const (
	// Fields.
	fColorTable         = 1 << 7
	fColorResolution    = 7 << 4
	fSorted             = 1 << 3
	fColorTableBitsMask = 7

	// Image fields.
	ifInterlace = 1 << 6
	ifSorted    = 1 << 5

	// Graphic control flags.
	gcTransparentColorSet = 1 << 0
	gcUserInputSet        = 1 << 1
	gcDisposalMethod      = 7 << 2
)

// LogicalScreen is the Logical Screen Descriptor shared by every frame.
type LogicalScreen struct {
	Width  int
	Height int

	ColorResolution      int // 1..8
	GlobalColorTable     bool
	GlobalColorTableSize int // 2..256, meaningful only with GlobalColorTable
	Sorted               bool
	BackgroundIndex      int

	// PixelAspect is the raw aspect byte; 0 means no information.
	PixelAspect byte
}

// AspectRatio returns the pixel aspect ratio (PixelAspect+15)/64.
func (s LogicalScreen) AspectRatio() (num, den int, ok bool) {
	if s.PixelAspect == 0 {
		return 1, 1, false
	}
	return int(s.PixelAspect) + 15, 64, true
}

type rawScreen struct {
	Width, Height uint16
	Fields        byte
	Background    byte
	Aspect        byte
}

// readHeader validates the 6-byte signature and version.
func readHeader(r *Reader) (string, error) {
	sig, err := r.ReadString(len(signature))
	if err != nil {
		return "", err
	}
	if sig != signature {
		return "", fmt.Errorf("%w: bad signature %q", ErrInvalidFormat, sig)
	}

	version, err := r.ReadString(3)
	if err != nil {
		return "", err
	}
	if version != version87a && version != version89a {
		return "", fmt.Errorf("%w: unsupported version %q", ErrInvalidFormat, version)
	}
	return version, nil
}

func readLogicalScreen(r *Reader) (*LogicalScreen, error) {
	var buf [7]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return nil, err
	}

	var raw rawScreen
	if err := binary.Read(bytes.NewReader(buf[:]), binary.LittleEndian, &raw); err != nil {
		return nil, fmt.Errorf("%w: logical screen: %v", ErrMalformedBlock, err)
	}

	return &LogicalScreen{
		Width:                int(raw.Width),
		Height:               int(raw.Height),
		ColorResolution:      int(raw.Fields&fColorResolution)>>4 + 1,
		GlobalColorTable:     raw.Fields&fColorTable != 0,
		GlobalColorTableSize: tableSize(raw.Fields),
		Sorted:               raw.Fields&fSorted != 0,
		BackgroundIndex:      int(raw.Background),
		PixelAspect:          raw.Aspect,
	}, nil
}

// Preamble is everything that precedes the block stream.
type Preamble struct {
	Version string
	Screen  LogicalScreen

	// GlobalColorTable is nil when the stream carries none.
	GlobalColorTable ColorTable
}

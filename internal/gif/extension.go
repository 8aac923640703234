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
	"time"

	"golang.org/x/text/encoding/charmap"
)

// Fixed sizes of the extension headers.
const (
	graphicControlSize = 4
	plainTextSize      = 12
	applicationSize    = 11
)

// DisposalMethod says what happens to the canvas after a frame is shown.
type DisposalMethod byte

const (
	DisposalUnspecified DisposalMethod = iota
	DisposalNone                       // do not dispose
	DisposalBackground                 // restore to background
	DisposalPrevious                   // restore to previous
)

func (m DisposalMethod) String() string {
	switch m {
	case DisposalNone:
		return "none"
	case DisposalBackground:
		return "background"
	case DisposalPrevious:
		return "previous"
	default:
		return "unspecified"
	}
}

// GraphicControl applies to the next image descriptor only.
type GraphicControl struct {
	Disposal  DisposalMethod
	UserInput bool

	// Transparent is the transparent color index, or -1.
	Transparent int

	// Delay in hundredths of a second.
	Delay int
}

func (gc *GraphicControl) Duration() time.Duration {
	return time.Duration(gc.Delay) * 10 * time.Millisecond
}

func readGraphicControl(r *Reader) (*GraphicControl, error) {
	var buf [6]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return nil, err
	}
	if buf[0] != graphicControlSize {
		return nil, malformed("invalid graphic control extension block size: %d", buf[0])
	}
	if buf[5] != 0 {
		return nil, malformed("invalid graphic control extension block terminator: %d", buf[5])
	}

	flags := buf[1]
	gc := &GraphicControl{
		UserInput:   flags&gcUserInputSet != 0,
		Transparent: -1,
		Delay:       int(buf[2]) | int(buf[3])<<8,
	}
	if m := DisposalMethod((flags & gcDisposalMethod) >> 2); m <= DisposalPrevious {
		gc.Disposal = m
	}
	if flags&gcTransparentColorSet != 0 {
		gc.Transparent = int(buf[4])
	}
	return gc, nil
}

type Comment struct {
	Text string
}

func readComment(r *Reader) (*Comment, error) {
	text, err := readText(r)
	if err != nil {
		return nil, err
	}
	return &Comment{Text: text}, nil
}

// PlainText is a text grid rendered over the image. Rendering is left to
// the caller; the compositor only records it.
type PlainText struct {
	Left, Top, Width, Height int
	CellWidth, CellHeight    int
	Foreground, Background   int
	Text                     string
}

type rawPlainText struct {
	Left, Top, Width, Height uint16
	CellWidth, CellHeight    byte
	Foreground, Background   byte
}

func readPlainText(r *Reader) (*PlainText, error) {
	size, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if size != plainTextSize {
		return nil, malformed("invalid plain text extension block size: %d", size)
	}

	var buf [plainTextSize]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return nil, err
	}

	var raw rawPlainText
	if err := binary.Read(bytes.NewReader(buf[:]), binary.LittleEndian, &raw); err != nil {
		return nil, malformed("plain text: %v", err)
	}

	text, err := readText(r)
	if err != nil {
		return nil, err
	}
	return &PlainText{
		Left:       int(raw.Left),
		Top:        int(raw.Top),
		Width:      int(raw.Width),
		Height:     int(raw.Height),
		CellWidth:  int(raw.CellWidth),
		CellHeight: int(raw.CellHeight),
		Foreground: int(raw.Foreground),
		Background: int(raw.Background),
		Text:       text,
	}, nil
}

// Application is an application extension. LoopCount is set for the
// NETSCAPE2.0 and ANIMEXTS1.0 looping extensions and is -1 otherwise.
type Application struct {
	Identifier string
	AuthCode   string
	Data       []byte
	LoopCount  int
}

// Looping reports whether the block is one of the known loop extensions.
func (a *Application) Looping() bool {
	id := a.Identifier + a.AuthCode
	return id == "NETSCAPE2.0" || id == "ANIMEXTS1.0"
}

func readApplication(r *Reader) (*Application, error) {
	size, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if size != applicationSize {
		return nil, malformed("invalid application extension block size: %d", size)
	}

	var buf [applicationSize]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return nil, err
	}

	app := &Application{
		Identifier: string(buf[:8]),
		AuthCode:   string(buf[8:]),
		LoopCount:  -1,
	}

	sb := NewSubBlocks(r)
	for sb.Next() {
		chunk := sb.Bytes()
		if app.Looping() && sb.Count() == 1 && len(chunk) == 3 && chunk[0] == 1 {
			app.LoopCount = int(chunk[1]) | int(chunk[2])<<8
		}
		app.Data = append(app.Data, chunk...)
	}
	if err := sb.Err(); err != nil {
		return nil, err
	}
	return app, nil
}

// readText reads a sub-block run as ISO-8859-1 text.
func readText(r *Reader) (string, error) {
	data, err := NewSubBlocks(r).ReadAll()
	if err != nil {
		return "", err
	}
	text, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", malformed("text: %v", err)
	}
	return string(text), nil
}

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
	"fmt"
	"io"
	"log/slog"
)

type BlockKind int

const (
	KindImageDescriptor BlockKind = iota
	KindGraphicControl
	KindComment
	KindPlainText
	KindApplication
	KindIgnore
	KindEnd
)

func (k BlockKind) String() string {
	switch k {
	case KindImageDescriptor:
		return "image-descriptor"
	case KindGraphicControl:
		return "graphic-control"
	case KindComment:
		return "comment"
	case KindPlainText:
		return "plain-text"
	case KindApplication:
		return "application"
	case KindIgnore:
		return "ignore"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Block is one element of the block stream. The set of implementations
// is closed: *ImageDescriptor, *GraphicControl, *Comment, *PlainText,
// *Application, Ignore and End.
type Block interface {
	Kind() BlockKind
	block()
}

// Ignore is produced for the stray 0x00 bytes some encoders emit between
// blocks.
type Ignore struct{}

// End is the trailer block.
type End struct{}

func (Ignore) Kind() BlockKind { return KindIgnore }
func (End) Kind() BlockKind    { return KindEnd }

func (*ImageDescriptor) Kind() BlockKind { return KindImageDescriptor }
func (*GraphicControl) Kind() BlockKind  { return KindGraphicControl }
func (*Comment) Kind() BlockKind         { return KindComment }
func (*PlainText) Kind() BlockKind       { return KindPlainText }
func (*Application) Kind() BlockKind     { return KindApplication }

func (Ignore) block()           {}
func (End) block()              {}
func (*ImageDescriptor) block() {}
func (*GraphicControl) block()  {}
func (*Comment) block()         {}
func (*PlainText) block()       {}
func (*Application) block()     {}

// BlockReader reads the block stream that follows the logical screen
// and the global color table.
type BlockReader struct {
	r      *Reader
	screen *LogicalScreen
	opts   *options

	index int
}

func newBlockReader(r *Reader, screen *LogicalScreen, opts *options) *BlockReader {
	return &BlockReader{
		r:      r,
		screen: screen,
		opts:   opts,
	}
}

// ReadNextBlock reads one block with default options. screen may be nil.
func ReadNextBlock(r *Reader, screen *LogicalScreen) (Block, error) {
	return newBlockReader(r, screen, defaultOptions()).Next()
}

// Index returns the number of blocks read so far.
func (br *BlockReader) Index() int {
	return br.index
}

// Next reads the next block. Errors are *DecodeError values carrying the
// block index and the offset at which the block started.
func (br *BlockReader) Next() (Block, error) {
	start := br.r.Offset()
	index := br.index

	blk, op, err := br.next()
	if err != nil {
		return nil, wrapError(op, start, index, err)
	}
	br.index++

	br.opts.logger.Debug("block read",
		slog.Int("index", index),
		slog.String("kind", blk.Kind().String()),
		slog.Int64("offset", start),
		slog.Int64("size", br.r.Offset()-start),
	)
	return blk, nil
}

func (br *BlockReader) next() (Block, string, error) {
	c, err := br.r.ReadByte()
	if err != nil {
		return nil, "reading block type", err
	}

	switch c {
	case sImageDescriptor:
		d, err := readImageDescriptor(br.r, br.screen, br.opts)
		return d, "reading image descriptor", err
	case sExtension:
		return br.readExtension()
	case sTrailer:
		return End{}, "", nil
	case sPadding:
		return Ignore{}, "", nil
	default:
		return nil, "reading block type", fmt.Errorf("%w: 0x%.2x", ErrUnknownBlockType, c)
	}
}

func (br *BlockReader) readExtension() (Block, string, error) {
	extension, err := br.r.ReadByte()
	if err != nil {
		return nil, "reading extension", err
	}

	switch extension {
	case eGraphicControl:
		gc, err := readGraphicControl(br.r)
		return gc, "reading graphic control", err
	case eComment:
		c, err := readComment(br.r)
		return c, "reading comment", err
	case eText:
		t, err := readPlainText(br.r)
		return t, "reading plain text", err
	case eApplication:
		a, err := readApplication(br.r)
		return a, "reading application extension", err
	default:
		return nil, "reading extension", fmt.Errorf("%w: 0x%.2x", ErrUnknownExtension, extension)
	}
}

// Blocks returns an iterator over the remaining blocks up to and including
// End. Iteration stops at the first error.
func (br *BlockReader) Blocks() func(yield func(Block, error) bool) {
	return func(yield func(Block, error) bool) {
		for {
			blk, err := br.Next()
			if !yield(blk, err) || err != nil {
				return
			}
			if blk.Kind() == KindEnd {
				return
			}
		}
	}
}

// ReadBlocks parses the header, the logical screen and the global color
// table of r and returns a reader positioned at the first block.
func ReadBlocks(r io.Reader, opts ...Option) (*BlockReader, *Preamble, error) {
	d := NewDecoder(r, opts...)
	p, err := d.Header()
	if err != nil {
		return nil, nil, err
	}
	return d.blocks, p, nil
}

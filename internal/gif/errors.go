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
	"errors"
	"fmt"
)

var (
	ErrInvalidFormat    = errors.New("invalid format")
	ErrTruncatedStream  = errors.New("truncated stream")
	ErrMalformedBlock   = errors.New("malformed block")
	ErrUnknownBlockType = errors.New("unknown block type")
	ErrNoFramesDecoded  = errors.New("no frames decoded")

	// ErrUnknownExtension also matches ErrUnknownBlockType.
	ErrUnknownExtension = fmt.Errorf("%w: unknown extension", ErrUnknownBlockType)
)

// DecodeError carries the position of a fatal decode failure.
// Block is the zero-based index of the block being read, or -1 when
// the failure happened before the block stream.
type DecodeError struct {
	Op     string
	Offset int64
	Block  int
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Block < 0 {
		return fmt.Sprintf("gif: %s at offset %d: %v", e.Op, e.Offset, e.Err)
	}
	return fmt.Sprintf("gif: %s (block %d, offset %d): %v", e.Op, e.Block, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func wrapError(op string, offset int64, block int, err error) error {
	if err == nil {
		return nil
	}

	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{
		Op:     op,
		Offset: offset,
		Block:  block,
		Err:    err,
	}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedBlock, fmt.Sprintf(format, args...))
}

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
	"io"
	"log/slog"
)

// DefaultMaxPixels bounds the area of the logical screen and of every
// image descriptor.
const DefaultMaxPixels = 1 << 26

type options struct {
	logger    *slog.Logger
	strictLZW bool
	maxPixels int
}

type Option func(*options)

// WithLogger routes decode warnings and per-block debug records to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStrictLZW rejects codes beyond the next free table index instead of
// decoding them as the KwKwK case. Reference decoders behave this way.
func WithStrictLZW(strict bool) Option {
	return func(o *options) {
		o.strictLZW = strict
	}
}

// WithMaxPixels limits the width*height of the logical screen and of any
// image descriptor.
// Values <= 0 restore DefaultMaxPixels.
func WithMaxPixels(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = DefaultMaxPixels
		}
		o.maxPixels = n
	}
}

func defaultOptions() *options {
	return &options{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxPixels: DefaultMaxPixels,
	}
}

func newOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

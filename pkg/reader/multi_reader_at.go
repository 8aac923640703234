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
package reader

import (
	"errors"
	"io"
	"os"
	"sort"
)

// MultiReaderAt presents a sequence of sized parts as a single
// contiguous io.ReaderAt, e.g. a disk image split into several files.
type MultiReaderAt struct {
	readers  []io.ReaderAt
	cumSizes []int64
	size     int64
}

func NewMultiReaderAt(readers []io.ReaderAt, sizes []int64) *MultiReaderAt {
	cumSizes := make([]int64, len(sizes))

	var size int64
	for i, s := range sizes {
		size += s
		cumSizes[i] = size
	}

	return &MultiReaderAt{
		readers:  readers,
		cumSizes: cumSizes,
		size:     size,
	}
}

func (r *MultiReaderAt) Size() int64 {
	return r.size
}

func (r *MultiReaderAt) ReadAt(buf []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("MultiReaderAt.ReadAt: negative offset")
	}
	if off >= r.size {
		return 0, io.EOF
	}

	i := sort.Search(len(r.readers), func(i int) bool {
		return r.cumSizes[i] > off
	})

	bytesRead := 0
	for bytesRead < len(buf) && i < len(r.readers) {
		var base int64
		if i > 0 {
			base = r.cumSizes[i-1]
		}

		partOff := off + int64(bytesRead) - base
		want := min(int64(len(buf)-bytesRead), r.cumSizes[i]-base-partOff)

		n, err := r.readers[i].ReadAt(buf[bytesRead:bytesRead+int(want)], partOff)
		bytesRead += n
		if err != nil && err != io.EOF {
			return bytesRead, err
		}
		if int64(n) < want {
			return bytesRead, io.ErrUnexpectedEOF
		}
		i++
	}

	if bytesRead < len(buf) {
		return bytesRead, io.EOF
	}
	return bytesRead, nil
}

// OpenFiles opens paths in order as the parts of a single image. Parts
// may be regular files or block devices. The returned close function
// releases every file.
func OpenFiles(paths ...string) (*MultiReaderAt, func() error, error) {
	var (
		files   []*os.File
		readers []io.ReaderAt
		sizes   []int64
	)

	closeAll := func() error {
		var errs []error
		for _, f := range files {
			errs = append(errs, f.Close())
		}
		return errors.Join(errs...)
	}

	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)

		finfo, err := f.Stat()
		if err != nil {
			closeAll()
			return nil, nil, err
		}

		size, err := sizeOf(f, finfo)
		if err != nil {
			closeAll()
			return nil, nil, err
		}

		readers = append(readers, f)
		sizes = append(sizes, size)
	}
	return NewMultiReaderAt(readers, sizes), closeAll, nil
}

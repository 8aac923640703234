//go:build unix

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
package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// File is a read-only memory mapping of a whole file.
type File struct {
	Data []byte // The mapped contents
	Size int64

	f *os.File
}

// Open maps the file at path read-only. Empty files cannot be mapped and
// are reported as errors, callers are expected to fall back to plain reads.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to get file info for %q: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("%q is not a regular file", path)
	}

	size := fi.Size()
	if size == 0 {
		f.Close()
		return nil, fmt.Errorf("file %q is empty, cannot mmap", path)
	}
	if int64(int(size)) != size {
		f.Close()
		return nil, fmt.Errorf("file %q is too large to map (%d bytes)", path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to mmap file %q: %w", path, err)
	}

	return &File{
		Data: data,
		Size: size,
		f:    f,
	}, nil
}

// Close unmaps the memory region and closes the underlying file.
func (m *File) Close() error {
	var err error
	if m.Data != nil {
		if uerr := unix.Munmap(m.Data); uerr != nil {
			err = fmt.Errorf("failed to munmap: %w", uerr)
		}
		m.Data = nil
	}

	if m.f != nil {
		if cerr := m.f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
		m.f = nil
	}
	return err
}

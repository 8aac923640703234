//go:build !unix

package mmap

import (
	"fmt"
	"os"
)

// File holds the contents of a file. Without mmap support the file is
// read into memory.
type File struct {
	Data []byte
	Size int64
}

func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	return &File{Data: data, Size: int64(len(data))}, nil
}

func (m *File) Close() error {
	m.Data = nil
	return nil
}

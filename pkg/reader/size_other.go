//go:build !linux

package reader

import "os"

func sizeOf(f *os.File, finfo os.FileInfo) (int64, error) {
	return finfo.Size(), nil
}

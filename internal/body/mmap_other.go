//go:build !unix

package body

import (
	"io"
	"os"
)

// DefaultMapper returns the platform mapper. Without mmap the region is
// read into the heap and releasing it is a no-op.
func DefaultMapper() Mapper {
	return readMapper{}
}

type readMapper struct{}

func (readMapper) Map(f *os.File, off, n int64) ([]byte, func() error, error) {
	buf := make([]byte, n)
	if m, err := f.ReadAt(buf, off); m < len(buf) {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, nil, err
	}
	return buf, func() error { return nil }, nil
}

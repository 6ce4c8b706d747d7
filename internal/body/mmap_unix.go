//go:build unix

package body

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// DefaultMapper returns the platform mapper: a read-only, shared mmap.
func DefaultMapper() Mapper {
	return mmapper{}
}

type mmapper struct{}

func (mmapper) Map(f *os.File, off, n int64) ([]byte, func() error, error) {
	// A mapping past the end of the file faults on access instead of failing here.
	fi, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if off+n > fi.Size() {
		return nil, nil, fmt.Errorf("range [%d, %d) beyond %d-byte file %s", off, off+n, fi.Size(), f.Name())
	}

	// mmap offsets must be page aligned.
	page := int64(unix.Getpagesize())
	aligned := off &^ (page - 1)
	delta := off - aligned

	rc, err := f.SyscallConn()
	if err != nil {
		return nil, nil, err
	}
	var mapping []byte
	var merr error
	if err := rc.Control(func(fd uintptr) {
		mapping, merr = unix.Mmap(int(fd), aligned, int(n+delta), unix.PROT_READ, unix.MAP_SHARED)
	}); err != nil {
		return nil, nil, err
	}
	if merr != nil {
		return nil, nil, fmt.Errorf("mmap %s: %w", f.Name(), merr)
	}

	var once sync.Once
	release := func() error {
		var err error
		once.Do(func() { err = unix.Munmap(mapping) })
		return err
	}
	return mapping[delta : delta+n : delta+n], release, nil
}

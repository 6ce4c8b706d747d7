package http

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tkingovr/body-guard/internal/body"
)

// spool reads r into a body chain: the first BufferSize bytes in memory,
// the rest in a temporary file. The returned cleanup closes and removes
// the file and is safe to call more than once. A missing body yields an
// empty in-memory chain.
func (p *Proxy) spool(r io.Reader) (*body.Link, func(), error) {
	nop := func() {}
	if r == nil {
		return body.MemoryLink(nil), nop, nil
	}

	mem, err := io.ReadAll(io.LimitReader(r, int64(p.opts.BufferSize)))
	if err != nil {
		return nil, nop, err
	}
	head := body.MemoryLink(mem)
	if len(mem) < p.opts.BufferSize {
		return head, nop, nil
	}

	f, err := os.CreateTemp(p.opts.TempDir, "bodyguard-*")
	if err != nil {
		return nil, nop, fmt.Errorf("creating spill file: %w", err)
	}
	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			f.Close()
			os.Remove(f.Name())
		})
	}

	n, err := io.Copy(f, r)
	if err != nil {
		cleanup()
		return nil, nop, fmt.Errorf("spilling body: %w", err)
	}
	if n == 0 {
		cleanup()
		return head, nop, nil
	}
	return body.Chain(head, body.FileLink(f, 0, n)), cleanup, nil
}

package body

import "fmt"

// Allocator hands out request-lifetime memory.
type Allocator interface {
	Alloc(n int) ([]byte, error)
}

// Framing is the length metadata of the payload being rebuilt.
type Framing interface {
	// HeadersSent reports whether the header block is already on the wire.
	HeadersSent() bool

	// SetContentLength records the new payload length.
	SetContentLength(n int64)
}

// Rebuild copies data into a single buffer allocated from alloc and
// returns it as a one-link in-memory chain. The content length in framing
// is updated to len(data) unless the headers have already been sent, in
// which case framing is left untouched. framing may be nil.
func Rebuild(alloc Allocator, framing Framing, data []byte) (*Link, error) {
	buf, err := alloc.Alloc(len(data))
	if err != nil {
		return nil, &Error{Op: "rebuild", Kind: ErrAllocFailed, Err: err}
	}
	if len(buf) < len(data) {
		return nil, &Error{Op: "rebuild", Kind: ErrAllocFailed,
			Err: fmt.Errorf("got %d of %d bytes", len(buf), len(data))}
	}
	n := copy(buf, data)

	if framing != nil && !framing.HeadersSent() {
		framing.SetContentLength(int64(n))
	}
	return &Link{Buf: buf, Pos: 0, Last: n}, nil
}

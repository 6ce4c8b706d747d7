package host

import (
	"fmt"

	"github.com/tkingovr/body-guard/internal/body"
)

// Arena is the per-request allocator. Memory handed out lives as long as
// the request; nothing is freed individually. An Arena is used by one
// request at a time and is not safe for concurrent use.
type Arena struct {
	limit int
	used  int
}

// NewArena returns an arena refusing to hand out more than limit bytes in
// total. A limit of zero or less means unbounded.
func NewArena(limit int) *Arena {
	return &Arena{limit: limit}
}

// Alloc returns n zeroed bytes or fails fast when the limit would be
// exceeded.
func (a *Arena) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative allocation size %d", n)
	}
	if a.limit > 0 && a.used+n > a.limit {
		return nil, fmt.Errorf("arena limit %d bytes exceeded (used %d, requested %d)", a.limit, a.used, n)
	}
	a.used += n
	return make([]byte, n), nil
}

// Used returns the number of bytes handed out so far.
func (a *Arena) Used() int {
	return a.used
}

// Response holds the outbound framing of a request.
type Response struct {
	// ContentLength is the body length announced in the headers, or -1
	// when unknown.
	ContentLength int64

	headersSent bool
}

// HeadersSent reports whether the header block has been transmitted.
func (r *Response) HeadersSent() bool {
	return r.headersSent
}

// MarkHeadersSent records that the header block is on the wire. There is
// no way back.
func (r *Response) MarkHeadersSent() {
	r.headersSent = true
}

// SetContentLength updates the announced body length.
func (r *Response) SetContentLength(n int64) {
	r.ContentLength = n
}

// Request is the state of one request as seen by the stages.
type Request struct {
	Method      string
	Path        string
	ContentType string

	// Body is the request body chain, nil when the request carries none.
	Body *body.Link

	Arena    *Arena
	Response *Response

	// Output is the response body chain as it left the last body filter.
	Output *body.Link
}

// NewRequest returns a request with a fresh arena and unknown response
// length.
func NewRequest(method, path string, arenaLimit int) *Request {
	return &Request{
		Method:   method,
		Path:     path,
		Arena:    NewArena(arenaLimit),
		Response: &Response{ContentLength: -1},
	}
}

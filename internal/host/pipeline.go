package host

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/tkingovr/body-guard/internal/body"
)

// ErrStarted is returned when a stage is registered after Start.
var ErrStarted = errors.New("pipeline already started")

// AccessHandler runs before the request is handed to the upstream.
type AccessHandler func(ctx context.Context, r *Request) Code

// BodyFilter processes an outbound body chain and passes it on.
type BodyFilter func(ctx context.Context, r *Request, in *body.Link) Code

// Emit is the terminal body filter: it stores the chain as the request
// output.
func Emit(_ context.Context, r *Request, in *body.Link) Code {
	r.Output = in
	return OK
}

// Pipeline holds the registered stages. Registration happens during
// startup only; Start seals the pipeline and from then on it is read-only
// and safe for concurrent use.
type Pipeline struct {
	mu      sync.Mutex
	started atomic.Bool

	access []AccessHandler
	top    BodyFilter
}

// NewPipeline returns a pipeline whose body filter chain ends in last.
// A nil last selects Emit.
func NewPipeline(last BodyFilter) *Pipeline {
	if last == nil {
		last = Emit
	}
	return &Pipeline{top: last}
}

// AddAccess appends an access-stage handler.
func (p *Pipeline) AddAccess(h AccessHandler) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started.Load() {
		return ErrStarted
	}
	p.access = append(p.access, h)
	return nil
}

// PushBodyFilter installs a new top body filter. wrap receives the
// current top as the next filter and must keep it for the lifetime of the
// process.
func (p *Pipeline) PushBodyFilter(wrap func(next BodyFilter) BodyFilter) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started.Load() {
		return ErrStarted
	}
	p.top = wrap(p.top)
	return nil
}

// Start seals the pipeline. It is safe to call more than once.
func (p *Pipeline) Start() {
	p.mu.Lock()
	p.started.Store(true)
	p.mu.Unlock()
}

// Access runs the access handlers in registration order. A handler
// returning Declined lets the next one decide; any other code ends the
// phase and is returned. Declined is returned when every handler
// declined.
func (p *Pipeline) Access(ctx context.Context, r *Request) Code {
	if !p.started.Load() {
		return Error
	}
	for _, h := range p.access {
		if code := h(ctx, r); code != Declined {
			return code
		}
	}
	return Declined
}

// Filter hands an outbound body chain to the top body filter.
func (p *Pipeline) Filter(ctx context.Context, r *Request, in *body.Link) Code {
	if !p.started.Load() {
		return Error
	}
	return p.top(ctx, r, in)
}

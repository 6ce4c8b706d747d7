package stage

import (
	"context"
	"log/slog"
	"time"

	"github.com/tkingovr/body-guard/api"
	"github.com/tkingovr/body-guard/internal/body"
	"github.com/tkingovr/body-guard/internal/filter"
	"github.com/tkingovr/body-guard/internal/host"
)

// Access runs an Inspector over every request body before the request is
// handled.
type Access struct {
	filter filter.Inspector
	opts   Options
}

func NewAccess(f filter.Inspector, opts Options) *Access {
	return &Access{filter: f, opts: opts.withDefaults()}
}

// Install registers the stage as an access handler.
func (a *Access) Install(p *host.Pipeline) error {
	return p.AddAccess(a.Handle)
}

// Handle returns host.Declined when the body is allowed so later
// handlers can decide, the configured client error status when it is
// rejected and host.Error when the body could not be inspected.
func (a *Access) Handle(ctx context.Context, r *host.Request) host.Code {
	start := time.Now()
	rec := &api.AuditRecord{
		Stage:  api.StageAccess,
		Method: r.Method,
		Path:   r.Path,
		Filter: a.filter.Name(),
	}

	var d filter.Decision
	err := a.opts.Reader.Scan(ctx, r.Body, func(b *body.Body) error {
		shape(rec, b)
		var err error
		d, err = a.filter.Inspect(ctx, &filter.Subject{
			Method:      r.Method,
			Path:        r.Path,
			ContentType: r.ContentType,
			Body:        b,
		})
		return err
	})
	if err != nil {
		a.opts.failed(ctx, rec, "error reading request body", err)
		a.opts.record(ctx, rec, start)
		return host.Error
	}

	if !d.Rejected() {
		rec.Verdict = api.VerdictUnchanged
		a.opts.record(ctx, rec, start)
		return host.Declined
	}

	rec.Verdict = api.VerdictRejected
	if d.Filter != "" {
		rec.Filter = d.Filter
	}
	rec.Message = d.Reason
	a.opts.Logger.WarnContext(ctx, "request is declined",
		slog.String("method", r.Method),
		slog.String("path", r.Path),
		slog.String("filter", rec.Filter),
		slog.String("reason", d.Reason),
		slog.Int("status", a.opts.RejectStatus),
	)
	a.opts.record(ctx, rec, start)
	return host.Status(a.opts.RejectStatus)
}

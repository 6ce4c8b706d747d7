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

// Output runs a Transformer over every outbound body chain.
type Output struct {
	filter filter.Transformer
	opts   Options
}

func NewOutput(f filter.Transformer, opts Options) *Output {
	return &Output{filter: f, opts: opts.withDefaults()}
}

// Install pushes the stage onto the pipeline's body filters. The filter
// below it becomes its next filter for good.
func (o *Output) Install(p *host.Pipeline) error {
	return p.PushBodyFilter(func(next host.BodyFilter) host.BodyFilter {
		return func(ctx context.Context, r *host.Request, in *body.Link) host.Code {
			return o.Handle(ctx, r, in, next)
		}
	})
}

// Handle forwards the original chain when the filter leaves the payload
// alone and a rebuilt one-link chain when it transforms it. Failures
// short-circuit with host.Error and next is not called.
func (o *Output) Handle(ctx context.Context, r *host.Request, in *body.Link, next host.BodyFilter) host.Code {
	start := time.Now()
	rec := &api.AuditRecord{
		Stage:  api.StageOutputBody,
		Method: r.Method,
		Path:   r.Path,
		Filter: o.filter.Name(),
	}

	var (
		data    []byte
		changed bool
	)
	err := o.opts.Reader.Scan(ctx, in, func(b *body.Body) error {
		shape(rec, b)
		data, changed = o.filter.Transform(ctx, b.Bytes())
		return nil
	})
	if err != nil {
		o.opts.failed(ctx, rec, "error reading response body", err)
		o.opts.record(ctx, rec, start)
		return host.Error
	}

	if !changed {
		rec.Verdict = api.VerdictUnchanged
		o.opts.record(ctx, rec, start)
		return next(ctx, r, in)
	}

	out, err := body.Rebuild(r.Arena, r.Response, data)
	if err != nil {
		o.opts.failed(ctx, rec, "error rebuilding response body", err)
		o.opts.record(ctx, rec, start)
		return host.Error
	}

	rec.Verdict = api.VerdictTransformed
	rec.BytesOut = len(data)
	o.opts.Logger.DebugContext(ctx, "response body transformed",
		slog.String("filter", rec.Filter),
		slog.String("path", r.Path),
		slog.Int("bytesIn", rec.BytesIn),
		slog.Int("bytesOut", rec.BytesOut),
	)
	o.opts.record(ctx, rec, start)
	return next(ctx, r, out)
}

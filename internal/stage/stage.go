// Package stage attaches content filters to the host pipeline and turns
// their outcomes into host control codes.
package stage

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rbmk-project/common/errclass"

	"github.com/tkingovr/body-guard/api"
	"github.com/tkingovr/body-guard/internal/audit"
	"github.com/tkingovr/body-guard/internal/body"
)

// Options holds the collaborators shared by both stages.
type Options struct {
	// Reader materializes chains. Nil selects a reader using the
	// platform mapper.
	Reader *body.Reader

	Logger *slog.Logger

	// Audit receives one record per stage run when set.
	Audit audit.Store

	// RejectStatus is the client error returned for rejected requests.
	// Zero selects 403 Forbidden.
	RejectStatus int
}

func (o Options) withDefaults() Options {
	if o.Reader == nil {
		o.Reader = body.NewReader(nil)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.RejectStatus == 0 {
		o.RejectStatus = http.StatusForbidden
	}
	return o
}

// shape records the layout of a materialized body on rec.
func shape(rec *api.AuditRecord, b *body.Body) {
	rec.Segments = len(b.Segments())
	for _, s := range b.Segments() {
		if s.Mapped() {
			rec.Mapped++
		}
	}
	rec.BytesIn = b.Len()
}

func (o Options) failed(ctx context.Context, rec *api.AuditRecord, msg string, err error) {
	rec.Verdict = api.VerdictError
	rec.Message = err.Error()
	o.Logger.ErrorContext(ctx, msg,
		slog.String("stage", string(rec.Stage)),
		slog.String("method", rec.Method),
		slog.String("path", rec.Path),
		slog.Any("err", err),
		slog.String("errClass", errclass.New(err)),
	)
}

func (o Options) record(ctx context.Context, rec *api.AuditRecord, start time.Time) {
	if o.Audit == nil {
		return
	}
	rec.Timestamp = start
	rec.Duration = time.Since(start)
	if err := o.Audit.Write(ctx, rec); err != nil {
		o.Logger.WarnContext(ctx, "failed to write audit record",
			slog.Any("err", err),
			slog.String("errClass", errclass.New(err)),
		)
	}
}

package stage

import (
	"context"
	"fmt"
	"io"

	"github.com/tkingovr/body-guard/api"
	"github.com/tkingovr/body-guard/internal/body"
	"github.com/tkingovr/body-guard/internal/host"
)

// Check runs one body through a started pipeline outside of any server
// and reports what the stage did. For api.StageAccess the chain is used as
// the request body; for api.StageOutputBody it is the response body and
// the filtered output is returned in full.
func Check(ctx context.Context, p *host.Pipeline, s api.Stage, r *host.Request, in *body.Link) (*api.CheckResponse, error) {
	resp := &api.CheckResponse{Stage: s}

	switch s {
	case api.StageAccess:
		r.Body = in
		code := p.Access(ctx, r)
		switch {
		case code.IsStatus():
			resp.Verdict = api.VerdictRejected
			resp.Status = int(code)
		case code == host.Declined, code == host.OK:
			resp.Verdict = api.VerdictUnchanged
		default:
			resp.Verdict = api.VerdictError
		}
		return resp, nil

	case api.StageOutputBody:
		if r.Response.ContentLength < 0 && in != nil {
			r.Response.SetContentLength(in.Size())
		}
		if code := p.Filter(ctx, r, in); code != host.OK {
			resp.Verdict = api.VerdictError
			return resp, nil
		}

		resp.Verdict = api.VerdictTransformed
		if r.Output == in {
			resp.Verdict = api.VerdictUnchanged
		}
		resp.ContentLength = r.Response.ContentLength

		data, err := io.ReadAll(body.NewStream(r.Output))
		if err != nil {
			return nil, fmt.Errorf("reading filtered body: %w", err)
		}
		resp.Body = string(data)
		return resp, nil
	}

	return nil, fmt.Errorf("unknown stage %q", s)
}

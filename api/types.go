package api

import "time"

// Verdict is the outcome of running a stage over one body.
type Verdict string

const (
	VerdictUnchanged   Verdict = "unchanged"
	VerdictTransformed Verdict = "transformed"
	VerdictRejected    Verdict = "rejected"
	VerdictError       Verdict = "error"
)

// Stage names the point in the request pipeline a filter is attached to.
type Stage string

const (
	StageAccess     Stage = "access"      // request body, before the upstream sees it
	StageOutputBody Stage = "output_body" // response body, before the client sees it
)

// AuditRecord represents a single stage outcome.
type AuditRecord struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Stage     Stage         `json:"stage"`
	Method    string        `json:"method,omitempty"`
	Path      string        `json:"path,omitempty"`
	Verdict   Verdict       `json:"verdict"`
	Filter    string        `json:"filter,omitempty"`
	Message   string        `json:"message,omitempty"`
	Segments  int           `json:"segments"`
	Mapped    int           `json:"mapped,omitempty"`
	BytesIn   int           `json:"bytes_in"`
	BytesOut  int           `json:"bytes_out,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// CheckResponse is the result of an offline `check` run.
type CheckResponse struct {
	Stage         Stage   `json:"stage"`
	Verdict       Verdict `json:"verdict"`
	Status        int     `json:"status,omitempty"`
	ContentLength int64   `json:"content_length"`
	Body          string  `json:"body,omitempty"`
}

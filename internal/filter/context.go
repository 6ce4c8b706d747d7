package filter

import "github.com/tkingovr/body-guard/internal/body"

// Subject is what an Inspector looks at: the request metadata and the
// materialized body.
type Subject struct {
	Method      string
	Path        string
	ContentType string

	// Body is valid only for the duration of the Inspect call.
	Body *body.Body
}

// Decision is the verdict of an Inspector.
type Decision struct {
	rejected bool

	// Filter is the name of the filter that rejected, set by InspectChain.
	Filter string

	// Reason is the human-readable rejection reason.
	Reason string
}

// Allow returns the decision letting the request through.
func Allow() Decision {
	return Decision{}
}

// Reject returns a rejecting decision with the given reason.
func Reject(reason string) Decision {
	return Decision{rejected: true, Reason: reason}
}

// Rejected reports whether the decision rejects the request.
func (d Decision) Rejected() bool {
	return d.rejected
}

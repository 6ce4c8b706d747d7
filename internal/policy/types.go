package policy

// Action is the outcome of a policy evaluation.
type Action string

const (
	ActionAllow  Action = "allow"
	ActionReject Action = "reject"
)

// EvalInput is the request metadata a policy is evaluated against.
type EvalInput struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	ContentType string `json:"content_type,omitempty"`
	BodySize    int64  `json:"body_size"`
}

// EvalResult is the output of a policy engine evaluation.
type EvalResult struct {
	Action  Action `json:"action"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message,omitempty"`
}

// Rejected reports whether the result rejects the request.
func (r *EvalResult) Rejected() bool {
	return r.Action != ActionAllow
}

package filter

import "context"

// Transformer is a content filter that may replace the payload.
type Transformer interface {
	// Name returns the filter name for logging.
	Name() string

	// Transform returns the replacement payload and true, or nil and false
	// when the payload is to be left as it is. data must not be modified.
	Transform(ctx context.Context, data []byte) ([]byte, bool)
}

// Inspector is a content filter that accepts or rejects a payload and
// never modifies it.
type Inspector interface {
	// Name returns the filter name for logging.
	Name() string

	// Inspect decides on the subject. An error means the filter could not
	// reach a decision.
	Inspect(ctx context.Context, s *Subject) (Decision, error)
}

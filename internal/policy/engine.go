package policy

import "context"

// Engine is the interface for policy evaluation backends.
type Engine interface {
	// Evaluate checks request metadata against the loaded policy.
	Evaluate(ctx context.Context, input *EvalInput) (*EvalResult, error)

	// Reload reloads the policy from its source.
	Reload(ctx context.Context) error
}

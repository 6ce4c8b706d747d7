package filter

import (
	"context"
	"fmt"

	"github.com/tkingovr/body-guard/internal/policy"
)

// PolicyInspector evaluates request metadata against the policy engine.
// The body itself is only measured.
type PolicyInspector struct {
	engine policy.Engine
}

func NewPolicyInspector(engine policy.Engine) *PolicyInspector {
	return &PolicyInspector{engine: engine}
}

func (f *PolicyInspector) Name() string { return "policy" }

func (f *PolicyInspector) Inspect(ctx context.Context, s *Subject) (Decision, error) {
	input := &policy.EvalInput{
		Method:      s.Method,
		Path:        s.Path,
		ContentType: s.ContentType,
	}
	if s.Body != nil {
		input.BodySize = int64(s.Body.Len())
	}

	result, err := f.engine.Evaluate(ctx, input)
	if err != nil {
		return Decision{}, fmt.Errorf("evaluating policy: %w", err)
	}
	if !result.Rejected() {
		return Allow(), nil
	}

	msg := result.Message
	if msg == "" {
		msg = "rejected by policy"
	}
	d := Reject(msg)
	if result.Rule != "" {
		d.Filter = "policy:" + result.Rule
	}
	return d, nil
}

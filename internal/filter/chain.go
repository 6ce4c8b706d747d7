package filter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// TransformChain runs transformers in order, each one seeing the output of
// the previous one. It is itself a Transformer.
type TransformChain struct {
	filters []Transformer
	logger  *slog.Logger
}

// NewTransformChain creates a new transformation chain.
func NewTransformChain(logger *slog.Logger, filters ...Transformer) *TransformChain {
	return &TransformChain{
		filters: filters,
		logger:  logger,
	}
}

// Name returns the names of the chained filters joined by '+'.
func (c *TransformChain) Name() string {
	names := make([]string, len(c.filters))
	for i, f := range c.filters {
		names[i] = f.Name()
	}
	return strings.Join(names, "+")
}

// Transform reports a change when at least one filter changed the payload.
func (c *TransformChain) Transform(ctx context.Context, data []byte) ([]byte, bool) {
	out, changed := data, false
	for _, f := range c.filters {
		next, ok := f.Transform(ctx, out)
		c.logger.Debug("filter executed",
			"filter", f.Name(),
			"changed", ok,
		)
		if ok {
			out, changed = next, true
		}
	}
	if !changed {
		return nil, false
	}
	return out, true
}

// Len returns the number of chained filters.
func (c *TransformChain) Len() int { return len(c.filters) }

// AddFilter appends a filter to the chain.
func (c *TransformChain) AddFilter(f Transformer) {
	c.filters = append(c.filters, f)
}

// InspectChain runs inspectors in order until one rejects. It is itself an
// Inspector.
type InspectChain struct {
	filters []Inspector
	logger  *slog.Logger
}

// NewInspectChain creates a new inspection chain.
func NewInspectChain(logger *slog.Logger, filters ...Inspector) *InspectChain {
	return &InspectChain{
		filters: filters,
		logger:  logger,
	}
}

func (c *InspectChain) Name() string {
	names := make([]string, len(c.filters))
	for i, f := range c.filters {
		names[i] = f.Name()
	}
	return strings.Join(names, "+")
}

// Inspect returns the first rejection, with Decision.Filter naming the
// filter that produced it. An error stops the chain.
func (c *InspectChain) Inspect(ctx context.Context, s *Subject) (Decision, error) {
	for _, f := range c.filters {
		d, err := f.Inspect(ctx, s)
		if err != nil {
			return Decision{}, fmt.Errorf("filter %q: %w", f.Name(), err)
		}
		c.logger.Debug("filter executed",
			"filter", f.Name(),
			"method", s.Method,
			"path", s.Path,
			"rejected", d.Rejected(),
		)
		if d.Rejected() {
			if d.Filter == "" {
				d.Filter = f.Name()
			}
			return d, nil
		}
	}
	return Allow(), nil
}

// Len returns the number of chained filters.
func (c *InspectChain) Len() int { return len(c.filters) }

// AddFilter appends a filter to the chain.
func (c *InspectChain) AddFilter(f Inspector) {
	c.filters = append(c.filters, f)
}

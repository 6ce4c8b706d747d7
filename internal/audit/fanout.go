package audit

import (
	"context"
	"errors"
	"sync"

	"github.com/rbmk-project/common/runtimex"

	"github.com/tkingovr/body-guard/api"
)

// FanOut writes every record to several stores in parallel. Stats come
// from the first store.
type FanOut struct {
	stores []Store
}

// NewFanOut returns a store writing to all of stores. At least one store
// is required.
func NewFanOut(stores ...Store) *FanOut {
	runtimex.Assert(len(stores) > 0, "audit: NewFanOut needs at least one store")
	return &FanOut{stores: stores}
}

// Write hands the same record to every store. Stores that fill in the ID
// or timestamp do so before the fan-out, so all of them see equal values.
func (f *FanOut) Write(ctx context.Context, record *api.AuditRecord) error {
	stamp(record)

	var wg sync.WaitGroup
	errs := make([]error, len(f.stores))
	for i, s := range f.stores {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := *record
			errs[i] = s.Write(ctx, &rec)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (f *FanOut) Stats(ctx context.Context) (*api.AuditStats, error) {
	return f.stores[0].Stats(ctx)
}

// Close closes every store and joins the errors.
func (f *FanOut) Close() error {
	var errv []error
	for _, s := range f.stores {
		if err := s.Close(); err != nil {
			errv = append(errv, err)
		}
	}
	return errors.Join(errv...)
}

package audit

import (
	"context"

	"github.com/tkingovr/body-guard/api"
)

// Store defines the interface for audit record persistence.
type Store interface {
	// Write appends an audit record.
	Write(ctx context.Context, record *api.AuditRecord) error

	// Stats returns aggregate statistics over the records written so far.
	Stats(ctx context.Context) (*api.AuditStats, error)

	// Close shuts down the store and flushes any buffers.
	Close() error
}

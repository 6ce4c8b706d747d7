package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkingovr/body-guard/api"
)

type memStore struct {
	mu      sync.Mutex
	records []api.AuditRecord
	err     error
	closed  bool
}

func (m *memStore) Write(_ context.Context, r *api.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *r)
	return m.err
}

func (m *memStore) Stats(context.Context) (*api.AuditStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &api.AuditStats{Total: len(m.records)}, nil
}

func (m *memStore) Close() error {
	m.closed = true
	return m.err
}

func TestFanOut_WritesEveryStore(t *testing.T) {
	a, b := &memStore{}, &memStore{}
	f := NewFanOut(a, b)

	require.NoError(t, f.Write(context.Background(), &api.AuditRecord{Stage: api.StageAccess}))

	require.Len(t, a.records, 1)
	require.Len(t, b.records, 1)
	assert.NotEmpty(t, a.records[0].ID)
	assert.Equal(t, a.records[0].ID, b.records[0].ID)
	assert.Equal(t, a.records[0].Timestamp, b.records[0].Timestamp)

	stats, err := f.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
}

func TestFanOut_JoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	a, b := &memStore{}, &memStore{err: boom}
	f := NewFanOut(a, b)

	err := f.Write(context.Background(), &api.AuditRecord{})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.records, 1, "healthy store still written")

	assert.ErrorIs(t, f.Close(), boom)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestFanOut_NoStores(t *testing.T) {
	assert.Panics(t, func() { NewFanOut() })
}

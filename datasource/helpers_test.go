package datasource

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/aalemi-dev/dynamic-datasource/observability"
	"github.com/aalemi-dev/dynamic-datasource/tracker"
	"github.com/stretchr/testify/require"
)

// lazyPostgres points at a closed port; nothing dials it unless a test
// acquires a connection.
func lazyPostgres(name string) Config {
	return Config{
		Name:   name,
		Driver: DriverPostgres,
		Connection: Connection{
			Host:    "127.0.0.1",
			Port:    "1",
			User:    "app",
			DbName:  "orders",
			SSLMode: "disable",
		},
	}
}

func newTestPool(t *testing.T, name string) *Pool {
	t.Helper()
	p, err := NewPool(lazyPostgres(name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

type stubSource struct {
	mu     sync.Mutex
	pings  int
	closes int
	err    error
}

func (s *stubSource) Conn(context.Context) (*sql.Conn, error) { return nil, s.err }

func (s *stubSource) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pings++
	return s.err
}

func (s *stubSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

type recordingTracker struct {
	mu       sync.Mutex
	acquired []time.Duration
	used     []time.Duration
	timeouts int
	closed   int
}

func (r *recordingTracker) RecordConnectionAcquired(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acquired = append(r.acquired, d)
}

func (r *recordingTracker) RecordConnectionUsage(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.used = append(r.used, d)
}

func (r *recordingTracker) RecordConnectionTimeout() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeouts++
}

func (r *recordingTracker) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
	return nil
}

type stubFactory struct {
	tracker *recordingTracker
	err     error
	pools   []string
}

func (f *stubFactory) Create(poolName string, _ *sql.DB) (tracker.Tracker, error) {
	f.pools = append(f.pools, poolName)
	if f.err != nil {
		return nil, f.err
	}
	return f.tracker, nil
}

type TestObserver struct {
	mu         sync.Mutex
	operations []observability.OperationContext
}

func (t *TestObserver) ObserveOperation(ctx observability.OperationContext) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.operations = append(t.operations, ctx)
}

func (t *TestObserver) GetOperations() []observability.OperationContext {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]observability.OperationContext, len(t.operations))
	copy(out, t.operations)
	return out
}

// Package tracker defines the metrics tracker a datasource.Pool reports to,
// and a Prometheus implementation of its factory.
//
// A Factory is installed on a pool once. The pool then asks it for a Tracker
// bound to its name and *sql.DB, and reports connection acquisition, usage and
// timeouts to that tracker for the rest of its life.
package tracker

import (
	"database/sql"
	"time"
)

//go:generate mockgen -source=interface.go -destination=mocks/mock_tracker.go -package=mocks

// Factory creates the Tracker of one pool.
type Factory interface {
	Create(poolName string, db *sql.DB) (Tracker, error)
}

// Tracker receives the events of a single pool.
type Tracker interface {
	// RecordConnectionAcquired is called with the time spent waiting for a connection.
	RecordConnectionAcquired(elapsed time.Duration)

	// RecordConnectionUsage is called with the time a connection was held.
	RecordConnectionUsage(elapsed time.Duration)

	// RecordConnectionTimeout is called when acquisition gave up on a deadline.
	RecordConnectionTimeout()

	// Close releases whatever the tracker registered. The pool calls it once,
	// when it is closed.
	Close() error
}

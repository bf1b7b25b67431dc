package datasource

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrClosed is returned by every operation on a closed data source.
	ErrClosed = errors.New("datasource: closed")

	// ErrTrackerFactoryAlreadySet is returned when a pool already has a tracker factory.
	ErrTrackerFactoryAlreadySet = errors.New("datasource: metrics tracker factory already set")

	// ErrMetricRegistryAlreadySet is returned when a pool already has a metric registry.
	ErrMetricRegistryAlreadySet = errors.New("datasource: metric registry already set")

	// ErrMetricsConflict is returned when a tracker factory and a metric
	// registry would both be set on the same pool.
	ErrMetricsConflict = errors.New("datasource: tracker factory and metric registry are mutually exclusive")

	ErrNilTrackerFactory = errors.New("datasource: tracker factory is nil")
	ErrNilMetricRegistry = errors.New("datasource: metric registry is nil")

	// ErrUnsupportedDriver is returned for a Config.Driver the data source
	// cannot open.
	ErrUnsupportedDriver = errors.New("datasource: unsupported driver")
)

// isTimeout reports whether err means the pool gave up waiting, either on the
// caller's deadline or on a driver-level network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

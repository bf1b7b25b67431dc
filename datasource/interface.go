package datasource

import (
	"context"
	"database/sql"
)

// DataSource is a named source of SQL connections.
type DataSource interface {
	// Conn returns a dedicated connection. The caller must close it.
	Conn(ctx context.Context) (*sql.Conn, error)

	Ping(ctx context.Context) error

	// Close releases the data source. Calling it more than once is safe.
	Close() error
}

// Logger is the subset of logger.Logger used by this package.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

var (
	_ DataSource = (*Pool)(nil)
	_ DataSource = (*BasicDataSource)(nil)
	_ DataSource = (*Item)(nil)
	_ DataSource = (*Proxy)(nil)
	_ DataSource = (*Observed)(nil)
)

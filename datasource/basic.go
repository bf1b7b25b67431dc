package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
)

// BasicDataSource is a plain sqlx connection pool. It takes no metrics
// instrumentation, so the metrics binder leaves it alone.
type BasicDataSource struct {
	name string
	db   *sqlx.DB

	closeOnce sync.Once
	closeErr  error
}

// OpenBasic opens a BasicDataSource for cfg with the lib/pq, go-sql-driver/mysql
// or go-mssqldb driver.
func OpenBasic(cfg Config) (*BasicDataSource, error) {
	switch cfg.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLServer:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}

	dsn, err := cfg.DataSourceName()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s data source %q: %w", cfg.Driver, cfg.Name, err)
	}
	cfg.ConnectionDetails.apply(db.DB)

	if cfg.PingOnOpen {
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping %s data source %q: %w", cfg.Driver, cfg.Name, err)
		}
	}

	return NewBasic(cfg.Name, db), nil
}

// NewBasic wraps an already opened database.
func NewBasic(name string, db *sqlx.DB) *BasicDataSource {
	return &BasicDataSource{name: name, db: db}
}

// Name returns the configured data source name.
func (b *BasicDataSource) Name() string { return b.name }

// DB returns the underlying sqlx handle.
func (b *BasicDataSource) DB() *sqlx.DB { return b.db }

// Conn returns a connection from the sqlx pool.
func (b *BasicDataSource) Conn(ctx context.Context) (*sql.Conn, error) {
	return b.db.Conn(ctx)
}

// Ping verifies a connection can be established.
func (b *BasicDataSource) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Close closes the sqlx pool.
func (b *BasicDataSource) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = b.db.Close()
	})
	return b.closeErr
}

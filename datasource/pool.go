package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aalemi-dev/dynamic-datasource/observability"
	"github.com/aalemi-dev/dynamic-datasource/tracker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Pool is a gorm-backed connection pool and the only data source type that
// accepts metrics instrumentation.
//
// Instrumentation comes in two mutually exclusive forms, each settable once:
// a tracker.Factory (SetMetricsTrackerFactory) or a legacy prometheus
// registry that only receives the database/sql statistics (SetMetricRegistry).
type Pool struct {
	name     string
	cfg      Config
	db       *gorm.DB
	sqlDB    *sql.DB
	logger   Logger
	observer observability.Observer
	done     chan struct{}

	mu              sync.Mutex
	closed          bool
	trackerFactory  tracker.Factory
	tracker         tracker.Tracker
	metricRegistry  prometheus.Registerer
	legacyCollector prometheus.Collector
}

// NewPool opens a pool for cfg. DriverPostgres and DriverMySQL are supported.
//
// Parameters:
//   - cfg: Connection and pool settings. Name is used in logs, metrics and
//     tracker labels.
//
// Returns the Pool or an error wrapping ErrUnsupportedDriver, the gorm open
// error or, with Config.PingOnOpen, the ping error. Without PingOnOpen no
// connection is made until first use.
//
// Example:
//
//	pool, err := datasource.NewPool(cfg)
//	if err != nil {
//	    return err
//	}
//	pool.WithLogger(log).WithObserver(observer)
func NewPool(cfg Config) (*Pool, error) {
	db, err := openGorm(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance of pool %q: %w", cfg.Name, err)
	}
	cfg.ConnectionDetails.apply(sqlDB)

	return &Pool{
		name:  cfg.Name,
		cfg:   cfg,
		db:    db,
		sqlDB: sqlDB,
		done:  make(chan struct{}),
	}, nil
}

func openGorm(cfg Config) (*gorm.DB, error) {
	dsn, err := cfg.DataSourceName()
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverMySQL:
		// The version probe is a query; skip it unless connecting eagerly.
		dialector = mysql.New(mysql.Config{
			DSN:                       dsn,
			SkipInitializeWithVersion: !cfg.PingOnOpen,
		})
	default:
		return nil, fmt.Errorf("%w for pool: %q", ErrUnsupportedDriver, cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError:       true,
		DisableAutomaticPing: !cfg.PingOnOpen,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s pool %q: %w", cfg.Driver, cfg.Name, err)
	}
	return db, nil
}

// WithLogger attaches a logger used by Monitor and Close.
func (p *Pool) WithLogger(logger Logger) *Pool {
	p.logger = logger
	return p
}

// WithObserver attaches an observer notified of health checks.
func (p *Pool) WithObserver(observer observability.Observer) *Pool {
	p.observer = observer
	return p
}

// Name returns the configured data source name.
func (p *Pool) Name() string { return p.name }

// DB returns the gorm handle of the pool.
func (p *Pool) DB() *gorm.DB { return p.db }

// SQLDB returns the database/sql pool under DB.
func (p *Pool) SQLDB() *sql.DB { return p.sqlDB }

// Stats returns the statistics of the underlying *sql.DB.
func (p *Pool) Stats() sql.DBStats { return p.sqlDB.Stats() }

// Conn acquires a connection and reports the wait, or the timeout, to the
// tracker if one is installed.
func (p *Pool) Conn(ctx context.Context) (*sql.Conn, error) {
	if p.isClosed() {
		return nil, ErrClosed
	}

	start := time.Now()
	conn, err := p.sqlDB.Conn(ctx)
	elapsed := time.Since(start)

	t := p.currentTracker()
	if err != nil {
		if t != nil && isTimeout(err) {
			t.RecordConnectionTimeout()
		}
		return nil, err
	}
	if t != nil {
		t.RecordConnectionAcquired(elapsed)
	}
	return conn, nil
}

// WithConn runs fn on a dedicated connection and reports how long it was held.
func (p *Pool) WithConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := p.Conn(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		_ = conn.Close()
		if t := p.currentTracker(); t != nil {
			t.RecordConnectionUsage(time.Since(start))
		}
	}()

	return fn(conn)
}

// Ping verifies a connection can be established. It returns ErrClosed after
// Close.
func (p *Pool) Ping(ctx context.Context) error {
	if p.isClosed() {
		return ErrClosed
	}
	return p.sqlDB.PingContext(ctx)
}

// SetMetricsTrackerFactory installs factory and creates the pool's tracker
// from it. It fails if a factory or a metric registry is already set, or if
// the factory cannot create the tracker, in which case nothing is installed.
func (p *Pool) SetMetricsTrackerFactory(factory tracker.Factory) error {
	if factory == nil {
		return ErrNilTrackerFactory
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.closed:
		return ErrClosed
	case p.trackerFactory != nil:
		return ErrTrackerFactoryAlreadySet
	case p.metricRegistry != nil:
		return ErrMetricsConflict
	}

	t, err := factory.Create(p.name, p.sqlDB)
	if err != nil {
		return fmt.Errorf("creating metrics tracker of pool %q: %w", p.name, err)
	}
	p.trackerFactory = factory
	p.tracker = t
	return nil
}

// MetricsTrackerFactory returns the installed factory, or nil.
func (p *Pool) MetricsTrackerFactory() tracker.Factory {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trackerFactory
}

// SetMetricRegistry exports the database/sql statistics of the pool on
// registry. It is the legacy alternative to SetMetricsTrackerFactory.
func (p *Pool) SetMetricRegistry(registry prometheus.Registerer) error {
	if registry == nil {
		return ErrNilMetricRegistry
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.closed:
		return ErrClosed
	case p.metricRegistry != nil:
		return ErrMetricRegistryAlreadySet
	case p.trackerFactory != nil:
		return ErrMetricsConflict
	}

	collector := collectors.NewDBStatsCollector(p.sqlDB, p.name)
	if err := registry.Register(collector); err != nil {
		return fmt.Errorf("registering database stats of pool %q: %w", p.name, err)
	}
	p.metricRegistry = registry
	p.legacyCollector = collector
	return nil
}

// MetricRegistry returns the legacy registry, or nil.
func (p *Pool) MetricRegistry() prometheus.Registerer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.metricRegistry
}

// Monitor pings the pool every interval until ctx is done or the pool is
// closed. Failures are logged and reported to the observer; database/sql
// replaces broken connections on its own.
func (p *Pool) Monitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.healthCheck(ctx)
		}
	}
}

func (p *Pool) healthCheck(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	err := p.Ping(pingCtx)
	p.observe("health_check", time.Since(start), err)
	if err != nil && !errors.Is(err, ErrClosed) {
		p.logWarn(ctx, "Data source health check failed", err)
	}
}

// Close closes the tracker, removes the legacy collector and closes the
// database. Only the first call does anything.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	t := p.tracker
	registry, collector := p.metricRegistry, p.legacyCollector
	p.mu.Unlock()

	var errs []error
	if t != nil {
		if err := t.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing metrics tracker: %w", err))
		}
	}
	if collector != nil {
		registry.Unregister(collector)
	}
	if err := p.sqlDB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing database: %w", err))
	}

	err := errors.Join(errs...)
	if err != nil {
		p.logWarn(context.Background(), "Failed to close data source cleanly", err)
	}
	return err
}

func (p *Pool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Pool) currentTracker() tracker.Tracker {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tracker
}

func (p *Pool) observe(operation string, duration time.Duration, err error) {
	if p.observer == nil {
		return
	}
	p.observer.ObserveOperation(observability.OperationContext{
		Component: "datasource",
		Operation: operation,
		Resource:  p.name,
		Duration:  duration,
		Error:     err,
		Metadata:  map[string]interface{}{"driver": p.cfg.Driver},
	})
}

func (p *Pool) logWarn(ctx context.Context, msg string, err error) {
	if p.logger != nil {
		p.logger.WarnWithContext(ctx, msg, err, map[string]interface{}{"datasource": p.name})
	}
}

// Package datasource provides the named SQL data sources that the router
// dispatches to, and the wrappers that can sit in front of them.
//
// A DataSource hands out connections, can be pinged and closed. The package
// ships two of them:
//   - `*Pool` wraps a `*gorm.DB` (PostgreSQL through pgx, MySQL/MariaDB through
//     go-sql-driver) and accepts a metrics tracker factory or a legacy metric
//     registry, each settable once and mutually exclusive.
//   - `*BasicDataSource` wraps a `*sqlx.DB` opened with lib/pq, go-sql-driver/mysql
//     or go-mssqldb. It has no metrics hooks at all.
//
// Everything else is a wrapper:
//   - `*Item` is the router's per-name holder. It may provision its data source
//     lazily and exposes the undecorated one through RealDataSource.
//   - `*Proxy` routes every call through an InvocationHandler and a chain of
//     interceptors.
//   - `*Observed` reports every call to an `observability.Observer`.
//
// Wrappers expose what they wrap, either as `Unwrap() DataSource` or through
// `InvocationHandler()`, so that the unwrap package can find a `*Pool` under
// any number of them.
//
// # Sections
//
//   - Basic usage: open a pool and query through gorm
//   - Wrapping: lazy items and decorators
//   - Metrics: tracker factories and legacy registries
//   - Observability: observers, health checks and logs
//
// Basic usage
//
//	pool, err := datasource.NewPool(datasource.Config{
//	    Name:   "master",
//	    Driver: datasource.DriverPostgres,
//	    Connection: datasource.Connection{
//	        Host:    "localhost",
//	        Port:    "5432",
//	        User:    "postgres",
//	        DbName:  "orders",
//	        SSLMode: "disable",
//	    },
//	})
//	if err != nil {
//	    // handle
//	}
//	defer pool.Close()
//
//	var n int64
//	pool.DB().WithContext(ctx).Table("orders").Count(&n)
//
// Wrapping
//
//	item := datasource.NewLazyItem("slave_1", func(ctx context.Context) (datasource.DataSource, error) {
//	    return datasource.NewPool(slaveCfg)
//	}, datasource.WithDecorator(func(ds datasource.DataSource) datasource.DataSource {
//	    return datasource.NewObserved("slave_1", ds, observer)
//	}))
//
// Pools do not open network connections until first used unless
// Config.PingOnOpen is set.
//
// Metrics
//
// A pool takes either a tracker factory or a legacy metric registry, once:
//
//	factory, err := tracker.NewPrometheusFactory(reg)
//	if err != nil {
//	    return err
//	}
//	if err := pool.SetMetricsTrackerFactory(factory); err != nil {
//	    // ErrTrackerFactoryAlreadySet or ErrMetricsConflict
//	}
//
// The dsmetrics package does this for every pool behind a router.
//
// # Observability
//
// Pools report "health_check" operations from Monitor to the observer set with
// WithObserver, and log failed checks through WithLogger:
//
//	pool = pool.WithLogger(log).WithObserver(observer)
//	go pool.Monitor(ctx, 30*time.Second)
//
// Observed reports "conn", "ping" and "close" for whatever it wraps. The
// observer's Resource is the data source name and Metadata carries the driver
// for pools.
package datasource

// Package dsmetrics installs Prometheus metrics trackers on the pools behind
// a router.
//
// The Binder starts from any data-source handle, unwraps it to the
// *router.Router, and for every currently registered item whose real data
// source is a *datasource.Pool installs a tracker.Factory bound to the
// registry. Pools that already carry a tracker factory or a legacy metric
// registry are left alone, so binding twice is harmless. Items that are not
// provisioned yet, and data sources that are not pools, are skipped without
// a word; a pool that fails to bind is logged once at warn level and the
// pass moves on.
//
// # Sections
//
//   - Basic usage: bind a router by hand
//   - Fx usage: bind at startup and on every router change
//   - Observability: logs, operations and spans of a pass
//
// Basic usage
//
//	reg := prometheus.NewRegistry()
//	r, err := router.NewFromConfig(cfg, nil, nil)
//	if err != nil {
//	    return err
//	}
//
//	binder := dsmetrics.NewBinder(reg, dsmetrics.WithLogger(log))
//	binder.Bind(ctx, r)
//
//	// Lazy pools appear later; bind again whenever the router changes.
//	r.OnChange(func(ctx context.Context) { binder.Bind(ctx, r) })
//
// Once bound, each pool exports
// <namespace>_pool_connection_acquire_seconds,
// <namespace>_pool_connection_usage_seconds and
// <namespace>_pool_connection_timeouts_total with a "pool" label, next to the
// database/sql statistics.
//
// Fx usage
//
// Include FXModule next to router.FXModule and a module providing a
// prometheus.Registerer (metrics.FXModule does):
//
//	app := fx.New(
//	    router.FXModule,
//	    metrics.FXModule,
//	    dsmetrics.FXModule,
//	    fx.Supply(routerCfg, metricsCfg),
//	    fx.Supply(dsmetrics.Config{Namespace: "orders"}),
//	)
//
// The module binds once at startup and again every time the router reports a
// change. Set Config.Enabled to false to turn it off without removing it from
// the graph.
//
// # Observability
//
// Successful binds are logged at info level with the "pool" and "datasource"
// fields. With an observability.Observer each bind attempt is reported as a
// "bind" operation of component "dsmetrics", and with a trace.Tracer each pass
// runs in a "dsmetrics.bind" span that records bind errors.
package dsmetrics

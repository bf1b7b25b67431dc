// Package metrics exposes Prometheus metrics over HTTP on two endpoints.
//
// The system endpoint (default :9090) carries Go runtime, process and build
// info collectors. The application endpoint (default :9091) carries whatever
// is registered on Metrics.Registerer: the per-pool series that dsmetrics
// installs through the tracker package, and the data-source operation series
// of OperationObserver. Every series gets a constant "service" label.
//
// Usage with fx:
//
//	app := fx.New(
//	    logger.FXModule,
//	    metrics.FXModule,
//	    router.FXModule,
//	    dsmetrics.FXModule,
//	    fx.Supply(metrics.Config{ServiceName: "orders"}, routerConfig, loggerConfig),
//	)
//
// Without fx:
//
//	m := metrics.NewMetrics(metrics.Config{ServiceName: "orders"})
//	go m.ApplicationServer.ListenAndServe()
//	dsmetrics.NewBinder(m.Registerer()).Bind(ctx, r)
package metrics

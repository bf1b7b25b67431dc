// Package tracer sets up the OpenTelemetry SDK tracer provider.
//
// Spans are exported over OTLP/HTTP when Config.EnableExport is set and are
// otherwise only kept in context, which still lets the logger attach trace
// and span IDs to log entries. The provider is installed globally so that
// libraries using otel.Tracer share it.
//
//	client, err := tracer.NewClient(tracer.Config{ServiceName: "orders", AppEnv: "prod"})
//	if err != nil {
//	    // handle
//	}
//	defer client.Shutdown(ctx)
//
//	binder := dsmetrics.NewBinder(reg, dsmetrics.WithTracer(client.Tracer()))
package tracer

package tracer

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// FXModule provides *TracerClient and its trace.Tracer from a tracer.Config,
// and shuts the provider down when the app stops.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
		ProvideTracer,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// ProvideTracer exposes the tracer of client.
func ProvideTracer(client *TracerClient) trace.Tracer {
	return client.Tracer()
}

// RegisterTracerLifecycle flushes and stops the provider on stop.
func RegisterTracerLifecycle(lc fx.Lifecycle, client *TracerClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Shutdown(ctx)
		},
	})
}

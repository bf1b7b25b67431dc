package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer handed out by TracerClient.Tracer.
const InstrumentationName = "github.com/aalemi-dev/dynamic-datasource"

// TracerClient owns the SDK tracer provider.
type TracerClient struct {
	provider *sdktrace.TracerProvider
}

// NewClient builds a tracer provider for cfg and installs it, with W3C trace
// context and baggage propagation, as the global otel provider.
//
// Parameters:
//   - cfg: Service name, environment and the optional OTLP/HTTP export target
//
// Returns the client, or an error when the OTLP exporter cannot be created.
// Call Shutdown to flush spans before exit.
func NewClient(cfg Config) (*TracerClient, error) {
	var options []sdktrace.TracerProviderOption

	if cfg.EnableExport {
		var clientOpts []otlptracehttp.Option
		if cfg.Endpoint != "" {
			clientOpts = append(clientOpts, otlptracehttp.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
		}

		exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(clientOpts...))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OTLP exporter: %w", err)
		}
		options = append(options, sdktrace.WithBatcher(exporter))
	}

	options = append(options, sdktrace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))

	tp := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return &TracerClient{provider: tp}, nil
}

// Tracer returns the module's tracer.
func (t *TracerClient) Tracer() trace.Tracer {
	return t.provider.Tracer(InstrumentationName)
}

// Shutdown flushes pending spans and stops the provider.
func (t *TracerClient) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

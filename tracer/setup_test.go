package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

func TestNewClient_NoExport(t *testing.T) {
	client, err := NewClient(Config{ServiceName: "test-service", AppEnv: "test"})

	require.NoError(t, err)
	require.NotNil(t, client.provider)
	assert.Same(t, client.provider, otel.GetTracerProvider())
	require.NoError(t, client.Shutdown(context.Background()))
}

func TestNewClient_EnableExport_NoCollector(t *testing.T) {
	// The exporter connects lazily, so a missing collector is not an error here.
	client, err := NewClient(Config{
		ServiceName:  "test-service",
		EnableExport: true,
		Endpoint:     "127.0.0.1:1",
		Insecure:     true,
	})

	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestTracer_RecordsSpans(t *testing.T) {
	client, err := NewClient(Config{ServiceName: "test-service"})
	require.NoError(t, err)
	defer client.Shutdown(context.Background())

	ctx, span := client.Tracer().Start(context.Background(), "dsmetrics.bind")
	defer span.End()

	sc := trace.SpanContextFromContext(ctx)
	assert.True(t, sc.IsValid())
	assert.True(t, sc.IsSampled())
}

func TestShutdown_ZeroClient(t *testing.T) {
	assert.NoError(t, (&TracerClient{}).Shutdown(context.Background()))
}

package tracer

// Config configures the OpenTelemetry tracer provider.
type Config struct {
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string `yaml:"service_name"`

	// AppEnv is recorded as deployment.environment.
	AppEnv string `yaml:"app_env"`

	// EnableExport sends spans to an OTLP/HTTP collector. The exporter reads
	// the standard OTEL_EXPORTER_OTLP_* environment variables unless
	// Endpoint is set.
	EnableExport bool `yaml:"enable_export"`

	// Endpoint is the collector host:port, e.g. "otel-collector:4318".
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards Endpoint.
	Insecure bool `yaml:"insecure"`
}

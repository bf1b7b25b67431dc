package logger

// Log levels accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls the zap logger built by NewLoggerClient.
type Config struct {
	// Level is the minimum level written. Unknown or empty values mean "info".
	Level string `yaml:"level"`

	// EnableTracing adds trace_id and span_id to entries written through the
	// *WithContext methods when the context carries a recording span.
	EnableTracing bool `yaml:"enable_tracing"`

	// ServiceName populates the "service" field of every entry.
	ServiceName string `yaml:"service_name"`

	// CallerSkip is the number of extra wrapper frames between the business code
	// and this package. Zero means the logger is called directly.
	CallerSkip int `yaml:"caller_skip"`
}

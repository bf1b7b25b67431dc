package metrics

// Default addresses for metrics servers if none is specified.
const (
	DefaultSystemMetricsAddress      = ":9090"
	DefaultApplicationMetricsAddress = ":9091"
)

// Config defines the configuration of the two Prometheus endpoints.
//
// The system endpoint (default :9090) exposes Go runtime, process and build
// info metrics. The application endpoint (default :9091) exposes the pool
// metrics installed by dsmetrics and the operation metrics of
// OperationObserver.
type Config struct {
	// SystemMetricsAddress is the listen address of the system endpoint.
	// nil means DefaultSystemMetricsAddress; a pointer to "" disables it.
	SystemMetricsAddress *string `yaml:"system_metrics_address"`

	// ApplicationMetricsAddress is the listen address of the application
	// endpoint. nil means DefaultApplicationMetricsAddress; a pointer to ""
	// disables it, and with it the pool metrics.
	ApplicationMetricsAddress *string `yaml:"application_metrics_address"`

	// ServiceName is added as a constant "service" label to every series.
	ServiceName string `yaml:"service_name"`
}

// Ptr returns a pointer to s.
//
//	cfg := metrics.Config{
//	    SystemMetricsAddress: metrics.Ptr(""), // disabled
//	    ServiceName:          "orders",
//	}
func Ptr(s string) *string {
	return &s
}

func addressOr(addr *string, def string) string {
	if addr == nil {
		return def
	}
	return *addr
}

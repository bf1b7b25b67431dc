package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds two Prometheus registries and the HTTP servers exposing them:
//  1. System metrics (Go runtime, process, build info) on SystemServer
//  2. Application metrics (pool and data-source operation metrics) on ApplicationServer
//
// Either half is nil when its address is configured as "".
type Metrics struct {
	SystemServer   *http.Server
	SystemRegistry *prometheus.Registry

	ApplicationServer   *http.Server
	ApplicationRegistry *prometheus.Registry

	// wrappedApplicationRegisterer adds the service label to everything
	// registered on ApplicationRegistry.
	wrappedApplicationRegisterer prometheus.Registerer
}

// NewMetrics builds the registries and servers described by cfg. The servers
// are not started; RegisterMetricsLifecycle does that under fx.
//
//	m := metrics.NewMetrics(metrics.Config{ServiceName: "orders"})
//	go m.ApplicationServer.ListenAndServe()
//	binder := dsmetrics.NewBinder(m.Registerer())
func NewMetrics(cfg Config) *Metrics {
	m := &Metrics{}
	serviceLabel := prometheus.Labels{"service": cfg.ServiceName}

	if systemAddr := addressOr(cfg.SystemMetricsAddress, DefaultSystemMetricsAddress); systemAddr != "" {
		systemRegistry := prometheus.NewRegistry()
		prometheus.WrapRegistererWith(serviceLabel, systemRegistry).MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)

		m.SystemRegistry = systemRegistry
		m.SystemServer = &http.Server{
			Addr:    systemAddr,
			Handler: promhttp.HandlerFor(systemRegistry, promhttp.HandlerOpts{}),
		}
	}

	if appAddr := addressOr(cfg.ApplicationMetricsAddress, DefaultApplicationMetricsAddress); appAddr != "" {
		applicationRegistry := prometheus.NewRegistry()

		m.ApplicationRegistry = applicationRegistry
		m.wrappedApplicationRegisterer = prometheus.WrapRegistererWith(serviceLabel, applicationRegistry)
		m.ApplicationServer = &http.Server{
			Addr:    appAddr,
			Handler: promhttp.HandlerFor(applicationRegistry, promhttp.HandlerOpts{}),
		}
	}

	return m
}

// Registerer returns the service-labelled registerer of the application
// registry, or nil when the application endpoint is disabled.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m.wrappedApplicationRegisterer == nil {
		return nil
	}
	return m.wrappedApplicationRegisterer
}

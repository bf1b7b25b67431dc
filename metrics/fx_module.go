package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/aalemi-dev/dynamic-datasource/logger"
	"github.com/aalemi-dev/dynamic-datasource/observability"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// FXModule provides the metrics endpoints and the registerer data-source
// metrics are bound to.
//
// The module provides:
//  1. *Metrics, whose servers are started and stopped with the app
//  2. prometheus.Registerer, the service-labelled application registerer
//     (nil when the application endpoint is disabled)
//  3. observability.Observer, an OperationObserver on the application
//     registry, or a no-op observer when the endpoint is disabled
//
// A metrics.Config must be in the container; a logger.Logger is optional.
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		ProvideRegisterer,
		ProvideObserver,
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// ProvideRegisterer exposes the application registerer of m.
func ProvideRegisterer(m *Metrics) prometheus.Registerer {
	return m.Registerer()
}

// ProvideObserver builds the OperationObserver of m.
func ProvideObserver(m *Metrics) (observability.Observer, error) {
	reg := m.Registerer()
	if reg == nil {
		return observability.NewNoOpObserver(), nil
	}
	return NewOperationObserver(reg)
}

// MetricsLifeCycleParams groups the dependencies of RegisterMetricsLifecycle.
type MetricsLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *Metrics
	Logger    logger.Logger `optional:"true"`
}

// RegisterMetricsLifecycle serves both endpoints in background goroutines on
// start and shuts them down on stop.
func RegisterMetricsLifecycle(params MetricsLifeCycleParams) {
	m, log := params.Metrics, params.Logger
	servers := []struct {
		name   string
		server *http.Server
	}{
		{"system", m.SystemServer},
		{"application", m.ApplicationServer},
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			for _, s := range servers {
				if s.server == nil {
					continue
				}
				go func() {
					logInfo(log, "Starting "+s.name+" metrics server", map[string]interface{}{"address": s.server.Addr})
					if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logError(log, "Error starting "+s.name+" metrics server", err)
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			for _, s := range servers {
				if s.server == nil {
					continue
				}
				logInfo(log, "Shutting down "+s.name+" metrics server", nil)
				if err := s.server.Shutdown(ctx); err != nil {
					logError(log, "Error shutting down "+s.name+" metrics server", err)
				}
			}
			return nil
		},
	})
}

func logInfo(log logger.Logger, msg string, fields map[string]interface{}) {
	if log != nil {
		log.Info(msg, nil, fields)
	}
}

func logError(log logger.Logger, msg string, err error) {
	if log != nil {
		log.Error(msg, err)
	}
}

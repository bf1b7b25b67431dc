package metrics_test

import (
	"net/http"
	"testing"

	"github.com/aalemi-dev/dynamic-datasource/logger"
	"github.com/aalemi-dev/dynamic-datasource/metrics"
	"github.com/aalemi-dev/dynamic-datasource/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestFXModule_ProvidesRegistererAndObserver(t *testing.T) {
	t.Parallel()
	var (
		m   *metrics.Metrics
		reg prometheus.Registerer
		obs observability.Observer
	)

	app := fxtest.New(t,
		metrics.FXModule,
		logger.FXModule,
		fx.Supply(
			metrics.Config{
				ServiceName:               "fx-test",
				SystemMetricsAddress:      metrics.Ptr(""),
				ApplicationMetricsAddress: metrics.Ptr("127.0.0.1:0"),
			},
			logger.Config{Level: logger.Info},
		),
		fx.Populate(&m, &reg, &obs),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, m)
	assert.Same(t, m.Registerer(), reg)
	assert.IsType(t, &metrics.OperationObserver{}, obs)
}

func TestFXModule_DisabledApplicationEndpoint(t *testing.T) {
	t.Parallel()
	var (
		reg prometheus.Registerer
		obs observability.Observer
	)

	app := fxtest.New(t,
		metrics.FXModule,
		fx.Supply(metrics.Config{
			SystemMetricsAddress:      metrics.Ptr(""),
			ApplicationMetricsAddress: metrics.Ptr(""),
		}),
		fx.Populate(&reg, &obs),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Nil(t, reg)
	assert.IsType(t, &observability.NoOpObserver{}, obs)
}

func TestRegisterMetricsLifecycle_StartsAndStops(t *testing.T) {
	t.Parallel()
	m := metrics.NewMetrics(metrics.Config{
		ServiceName:               "lifecycle-test",
		SystemMetricsAddress:      metrics.Ptr("127.0.0.1:0"),
		ApplicationMetricsAddress: metrics.Ptr(""),
	})

	lc := fxtest.NewLifecycle(t)
	metrics.RegisterMetricsLifecycle(metrics.MetricsLifeCycleParams{Lifecycle: lc, Metrics: m})

	lc.RequireStart()
	lc.RequireStop()

	assert.ErrorIs(t, m.SystemServer.ListenAndServe(), http.ErrServerClosed)
}

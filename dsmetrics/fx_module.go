package dsmetrics

import (
	"context"

	"github.com/aalemi-dev/dynamic-datasource/datasource"
	"github.com/aalemi-dev/dynamic-datasource/observability"
	"github.com/aalemi-dev/dynamic-datasource/router"
	"github.com/aalemi-dev/dynamic-datasource/tracker"
	"github.com/aalemi-dev/dynamic-datasource/unwrap"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// FXModule binds pool metrics at startup and on every router change.
//
// It does nothing unless the container holds a prometheus.Registerer and at
// least one member of the "datasources" value group.
var FXModule = fx.Module("dsmetrics",
	fx.Invoke(RegisterDataSourceMetrics),
)

// DataSourceMetricsParams groups the dependencies of RegisterDataSourceMetrics.
type DataSourceMetricsParams struct {
	fx.In

	Registerer  prometheus.Registerer   `optional:"true"`
	DataSources []datasource.DataSource `group:"datasources"`
	Config      Config                  `optional:"true"`
	Logger      Logger                  `optional:"true"`
	Observer    observability.Observer  `optional:"true"`
	Tracer      trace.Tracer            `optional:"true"`
}

// RegisterDataSourceMetrics binds every data source of the group once and
// subscribes to the change events of the routers behind them.
//
// Parameters:
//   - params: The injected registerer, data sources and optional config,
//     logger, observer and tracer
//
// Nothing happens when Config disables the module, when no registerer is
// provided or when the "datasources" group is empty. Each router is
// subscribed once even if several group members unwrap to it.
func RegisterDataSourceMetrics(params DataSourceMetricsParams) {
	if !params.Config.enabled() || params.Registerer == nil || len(params.DataSources) == 0 {
		return
	}

	opts := []Option{WithFactoryOptions(tracker.WithNamespace(params.Config.Namespace))}
	if params.Logger != nil {
		opts = append(opts, WithLogger(params.Logger))
	}
	if params.Observer != nil {
		opts = append(opts, WithObserver(params.Observer))
	}
	if params.Tracer != nil {
		opts = append(opts, WithTracer(params.Tracer))
	}
	binder := NewBinder(params.Registerer, opts...)

	subscribed := make(map[*router.Router]bool)
	for _, ds := range params.DataSources {
		binder.Bind(context.Background(), ds)

		r, ok := unwrap.As[*router.Router](ds, delegates)
		if !ok || subscribed[r] {
			continue
		}
		subscribed[r] = true

		handle := ds
		r.OnChange(func(ctx context.Context) {
			binder.Bind(ctx, handle)
		})
	}
}

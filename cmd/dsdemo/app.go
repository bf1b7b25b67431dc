package main

import (
	"context"
	"sort"

	"github.com/aalemi-dev/dynamic-datasource/dsmetrics"
	"github.com/aalemi-dev/dynamic-datasource/logger"
	"github.com/aalemi-dev/dynamic-datasource/metrics"
	"github.com/aalemi-dev/dynamic-datasource/router"
	"github.com/aalemi-dev/dynamic-datasource/tracer"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// appOptions assembles the fx graph for cfg.
func appOptions(cfg AppConfig) fx.Option {
	return fx.Options(
		fx.Supply(cfg.Logger, cfg.Metrics, cfg.Tracer, cfg.Router, cfg.DSMetrics),
		fx.WithLogger(func(l *logger.LoggerClient) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Zap}
		}),

		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		router.FXModule,
		dsmetrics.FXModule,

		// The router and dsmetrics log through narrow interfaces of their own.
		fx.Provide(
			fx.Annotate(
				func(l *logger.LoggerClient) *logger.LoggerClient { return l },
				fx.As(new(router.Logger)),
				fx.As(new(dsmetrics.Logger)),
			),
		),

		fx.Invoke(logRoutes),
	)
}

// logRoutes reports the configured groups once the app has started.
func logRoutes(lc fx.Lifecycle, r *router.Router, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sources := r.CurrentDataSources()
			names := make([]string, 0, len(sources))
			for name := range sources {
				names = append(names, name)
			}
			sort.Strings(names)
			log.InfoWithContext(ctx, "Data sources ready", nil, map[string]interface{}{
				"datasources": names,
				"groups":      r.Groups(),
			})
			return nil
		},
	})
}

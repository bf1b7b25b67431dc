package router

import (
	"context"
	"sync"
	"time"

	"github.com/aalemi-dev/dynamic-datasource/datasource"
	"github.com/aalemi-dev/dynamic-datasource/observability"
	"github.com/aalemi-dev/dynamic-datasource/unwrap"
	"go.uber.org/fx"
)

// FXModule provides the Router built from Config.
//
// This module provides:
//   - *Router, for routing keys and runtime changes
//   - datasource.DataSource in the "datasources" value group, the router
//     itself or an Observed wrapper of it when an observer is available
//
// Consumers that instrument data sources, such as dsmetrics.FXModule, collect
// the group and unwrap back to the Router.
var FXModule = fx.Module("router",
	fx.Provide(
		NewRouterWithDI,
		fx.Annotate(
			ProvideDataSource,
			fx.ResultTags(`group:"datasources"`),
		),
	),
	fx.Invoke(RegisterRouterLifecycle),
)

// RouterParams groups the dependencies of NewRouterWithDI.
type RouterParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewRouterWithDI builds the Router from the injected Config. When an
// observer is injected, every item's data source is decorated with
// datasource.Observed.
func NewRouterWithDI(params RouterParams) (*Router, error) {
	var opts []datasource.ItemOption
	if params.Observer != nil {
		obs := params.Observer
		opts = append(opts, datasource.WithDecorator(func(ds datasource.DataSource) datasource.DataSource {
			name := "datasource"
			if named, ok := ds.(interface{ Name() string }); ok {
				name = named.Name()
			}
			return datasource.NewObserved(name, ds, obs)
		}))
	}
	return NewFromConfig(params.Config, params.Logger, params.Observer, opts...)
}

// ProvideDataSource exposes the router as a data source.
func ProvideDataSource(r *Router, params RouterParams) datasource.DataSource {
	if params.Observer == nil {
		return r
	}
	return datasource.NewObserved("router", r, params.Observer)
}

// RouterLifeCycleParams groups the dependencies of RegisterRouterLifecycle.
type RouterLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Router    *Router
	Config    Config
}

// RegisterRouterLifecycle starts pool health checks when
// Config.HealthCheckInterval is positive and closes every data source on stop.
func RegisterRouterLifecycle(params RouterLifeCycleParams) {
	hc := newHealthChecks(params.Config.HealthCheckInterval)
	params.Router.OnChange(hc.sync(params.Router))

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			hc.start()
			hc.sync(params.Router)(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			hc.stop()
			return params.Router.Close()
		},
	})
}

// healthChecks runs one Pool.Monitor goroutine per provisioned pool.
type healthChecks struct {
	interval time.Duration

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	watched map[*datasource.Pool]struct{}
	wg      sync.WaitGroup
}

func newHealthChecks(interval time.Duration) *healthChecks {
	return &healthChecks{interval: interval, watched: make(map[*datasource.Pool]struct{})}
}

func (h *healthChecks) start() {
	if h.interval <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ctx, h.cancel = context.WithCancel(context.Background())
}

func (h *healthChecks) sync(r *Router) func(context.Context) {
	return func(context.Context) {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.ctx == nil || h.ctx.Err() != nil {
			return
		}

		for _, ds := range r.CurrentDataSources() {
			item, ok := unwrap.As[*datasource.Item](ds, unwrap.Delegate[datasource.DataSource]())
			if !ok {
				continue
			}
			pool, ok := unwrap.As[*datasource.Pool](item.RealDataSource(), unwrap.Delegate[datasource.DataSource]())
			if !ok {
				continue
			}
			if _, seen := h.watched[pool]; seen {
				continue
			}
			h.watched[pool] = struct{}{}

			ctx := h.ctx
			h.wg.Add(1)
			go func() {
				defer h.wg.Done()
				pool.Monitor(ctx, h.interval)
			}()
		}
	}
}

func (h *healthChecks) stop() {
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
	}
	h.mu.Unlock()
	h.wg.Wait()
}

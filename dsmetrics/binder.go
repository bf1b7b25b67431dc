package dsmetrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aalemi-dev/dynamic-datasource/datasource"
	"github.com/aalemi-dev/dynamic-datasource/observability"
	"github.com/aalemi-dev/dynamic-datasource/router"
	"github.com/aalemi-dev/dynamic-datasource/tracker"
	"github.com/aalemi-dev/dynamic-datasource/unwrap"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Logger is the subset of logger.Logger used by this package.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// FactoryProvider builds the tracker factory installed on one pool.
type FactoryProvider func(registry prometheus.Registerer) (tracker.Factory, error)

// Option configures a Binder.
type Option func(*Binder)

// WithLogger sets the logger for bind results.
func WithLogger(logger Logger) Option {
	return func(b *Binder) { b.logger = logger }
}

// WithObserver reports one "bind" operation per pool the Binder tries to bind.
func WithObserver(observer observability.Observer) Option {
	return func(b *Binder) { b.observer = observer }
}

// WithTracer wraps every pass in a "dsmetrics.bind" span.
func WithTracer(tracer trace.Tracer) Option {
	return func(b *Binder) { b.tracer = tracer }
}

// WithFactoryOptions configures the default Prometheus tracker factory.
func WithFactoryOptions(opts ...tracker.Option) Option {
	return func(b *Binder) { b.factoryOpts = append(b.factoryOpts, opts...) }
}

// WithFactoryProvider replaces the Prometheus tracker factory.
func WithFactoryProvider(provider FactoryProvider) Option {
	return func(b *Binder) {
		if provider != nil {
			b.provider = provider
		}
	}
}

// Binder installs tracker factories on the pools behind a router.
type Binder struct {
	registry    prometheus.Registerer
	factoryOpts []tracker.Option
	provider    FactoryProvider
	logger      Logger
	observer    observability.Observer
	tracer      trace.Tracer

	mu sync.Mutex
}

// NewBinder returns a Binder installing trackers bound to registry.
//
// Parameters:
//   - registry: The Prometheus registerer every tracker factory is bound to
//   - opts: Optional logger, observer, tracer and factory settings
//
// Returns a Binder ready for Bind. Unless WithFactoryProvider is given, each
// pool gets its own tracker.PrometheusFactory built with the WithFactoryOptions
// options.
//
// Example:
//
//	binder := dsmetrics.NewBinder(reg,
//	    dsmetrics.WithLogger(log),
//	    dsmetrics.WithFactoryOptions(tracker.WithNamespace("orders")),
//	)
//	binder.Bind(ctx, r)
func NewBinder(registry prometheus.Registerer, opts ...Option) *Binder {
	b := &Binder{registry: registry}
	for _, opt := range opts {
		opt(b)
	}
	if b.provider == nil {
		b.provider = func(registry prometheus.Registerer) (tracker.Factory, error) {
			return tracker.NewPrometheusFactory(registry, b.factoryOpts...)
		}
	}
	return b
}

// delegates lets the unwrapper follow decorators that return the data
// source they wrap.
var delegates = unwrap.Delegate[datasource.DataSource]()

// Bind runs one binding pass over the data sources behind handle. It never
// fails: absent routers, items and pools are skipped, and binding errors are
// logged. Passes are serialized.
//
// Parameters:
//   - ctx: Context for the bind span and log entries
//   - handle: A *router.Router or anything that unwraps to one, such as the
//     router.FXModule group member; other values are ignored
//
// A pool whose real data source is a *datasource.Pool and that carries neither
// a tracker factory nor a legacy metric registry gets a new factory. Pools
// already bound are not touched, so calling Bind again after every router
// change is safe.
func (b *Binder) Bind(ctx context.Context, handle any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, ok := unwrap.As[*router.Router](handle, delegates)
	if !ok {
		return
	}
	sources := r.CurrentDataSources()
	if len(sources) == 0 {
		return
	}

	ctx, span := b.startSpan(ctx, len(sources))
	defer span.End()

	for name, ds := range sources {
		item, ok := unwrap.As[*datasource.Item](ds, delegates)
		if !ok {
			continue
		}
		realDS := item.RealDataSource()
		if realDS == nil {
			continue
		}
		// Only the real data source itself is eligible; a pool the user
		// decorated before handing it to the item is left alone.
		pool, ok := realDS.(*datasource.Pool)
		if !ok {
			continue
		}
		b.bindPool(ctx, span, name, pool)
	}
}

func (b *Binder) bindPool(ctx context.Context, span trace.Span, name string, pool *datasource.Pool) {
	if pool.MetricsTrackerFactory() != nil || pool.MetricRegistry() != nil {
		return
	}

	start := time.Now()
	err := b.install(pool)
	b.observe(name, pool.Name(), time.Since(start), err)

	fields := map[string]interface{}{"pool": pool.Name(), "datasource": name}
	if err != nil {
		span.RecordError(err, trace.WithAttributes(attribute.String("pool", pool.Name())))
		span.SetStatus(codes.Error, "binding pool metrics failed")
		if b.logger != nil {
			b.logger.WarnWithContext(ctx, "Failed to bind pool metrics", err, fields)
		}
		return
	}
	if b.logger != nil {
		b.logger.InfoWithContext(ctx, "Bound pool metrics", nil, fields)
	}
}

// install creates a factory and sets it on pool. A panic in either step is
// returned as an error.
func (b *Binder) install(pool *datasource.Pool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrBindPanic, r)
		}
	}()

	factory, err := b.provider(b.registry)
	if err != nil {
		return fmt.Errorf("creating tracker factory: %w", err)
	}
	return pool.SetMetricsTrackerFactory(factory)
}

func (b *Binder) startSpan(ctx context.Context, sources int) (context.Context, trace.Span) {
	if b.tracer == nil {
		return ctx, noop.Span{}
	}
	return b.tracer.Start(ctx, "dsmetrics.bind", trace.WithAttributes(attribute.Int("datasource.count", sources)))
}

func (b *Binder) observe(name, pool string, duration time.Duration, err error) {
	if b.observer == nil {
		return
	}
	b.observer.ObserveOperation(observability.OperationContext{
		Component:   "dsmetrics",
		Operation:   "bind",
		Resource:    pool,
		SubResource: name,
		Duration:    duration,
		Error:       err,
	})
}

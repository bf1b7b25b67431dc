package router

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aalemi-dev/dynamic-datasource/datasource"
	"github.com/aalemi-dev/dynamic-datasource/observability"
	"github.com/avast/retry-go/v4"
)

// Open opens the data source described by cfg. logger and observer are
// attached to pools and may be nil.
func Open(cfg SourceConfig, logger Logger, observer observability.Observer) (datasource.DataSource, error) {
	switch cfg.Kind {
	case "", KindPool:
		pool, err := datasource.NewPool(cfg.Config)
		if err != nil {
			return nil, err
		}
		if logger != nil {
			pool.WithLogger(logger)
		}
		if observer != nil {
			pool.WithObserver(observer)
		}
		return pool, nil
	case KindBasic:
		basic, err := datasource.OpenBasic(cfg.Config)
		if err != nil {
			return nil, err
		}
		return basic, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

// NewFromConfig builds a Router holding one datasource.Item per configured
// data source. Eager items are opened here; lazy ones on first use, after
// which the router's change listeners are notified. opts are applied to every
// item.
//
// Parameters:
//   - cfg: Routing settings and the data sources by name
//   - logger: Receives open retries and router events, may be nil
//   - observer: Attached to every pool, may be nil
//   - opts: Item options such as datasource.WithDecorator
//
// Returns the Router, or an error when the strategy or a kind is unknown or an
// eager data source cannot be opened. On error every data source opened so far
// is closed.
func NewFromConfig(cfg Config, logger Logger, observer observability.Observer, opts ...datasource.ItemOption) (*Router, error) {
	strategy, err := StrategyByName(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	r := New(
		WithPrimary(cfg.Primary),
		WithStrict(cfg.Strict),
		WithStrategy(strategy),
		WithLogger(logger),
	)

	names := make([]string, 0, len(cfg.DataSources))
	for name := range cfg.DataSources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sc := cfg.DataSources[name]
		sc.Name = name

		var item *datasource.Item
		if sc.Lazy {
			item = datasource.NewLazyItem(name, func(ctx context.Context) (datasource.DataSource, error) {
				return openWithRetry(ctx, cfg.OpenRetry, sc, logger, observer)
			}, opts...)
			item.OnProvision(func(ctx context.Context, _ *datasource.Item) {
				r.NotifyChange(ctx)
			})
		} else {
			ds, err := openWithRetry(context.Background(), cfg.OpenRetry, sc, logger, observer)
			if err != nil {
				_ = r.Close()
				return nil, fmt.Errorf("opening data source %q: %w", name, err)
			}
			item = datasource.NewItem(name, ds, opts...)
		}
		r.AddDataSource(context.Background(), name, item)
	}

	return r, nil
}

// openWithRetry calls Open until it succeeds, ctx ends or rc.Attempts is
// spent. Configuration errors are not retried.
func openWithRetry(ctx context.Context, rc RetryConfig, sc SourceConfig, logger Logger, observer observability.Observer) (datasource.DataSource, error) {
	if rc.Attempts <= 1 {
		return Open(sc, logger, observer)
	}

	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(rc.Attempts),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, datasource.ErrUnsupportedDriver) && !errors.Is(err, ErrUnknownKind)
		}),
		retry.OnRetry(func(n uint, err error) {
			if logger != nil {
				logger.WarnWithContext(ctx, "Failed to open data source", err, map[string]interface{}{
					"datasource": sc.Name,
					"attempt":    n + 1,
				})
			}
		}),
	}
	if rc.Delay > 0 {
		opts = append(opts, retry.Delay(rc.Delay))
	}

	return retry.DoWithData(func() (datasource.DataSource, error) {
		return Open(sc, logger, observer)
	}, opts...)
}

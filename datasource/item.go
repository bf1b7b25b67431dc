package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// Opener creates the data source of a lazy Item.
type Opener func(ctx context.Context) (DataSource, error)

// Decorator wraps the data source of an Item once it is provisioned.
type Decorator func(DataSource) DataSource

// ItemOption configures an Item.
type ItemOption func(*Item)

// WithDecorator adds a decorator. Decorators are applied in order, so the
// last one is outermost.
func WithDecorator(d Decorator) ItemOption {
	return func(i *Item) {
		if d != nil {
			i.decorators = append(i.decorators, d)
		}
	}
}

// Item is the entry the router keeps per data source name.
//
// It holds the real data source and the decorated one callers go through.
// A lazy Item has neither until Provision runs, which happens on first use.
type Item struct {
	name       string
	open       Opener
	decorators []Decorator

	mu        sync.Mutex
	real      DataSource
	decorated DataSource
	closed    bool
	hooks     []func(ctx context.Context, item *Item)
}

// NewItem returns an Item already provisioned with ds.
func NewItem(name string, ds DataSource, opts ...ItemOption) *Item {
	i := newItem(name, nil, opts)
	if ds != nil {
		i.real = ds
		i.decorated = i.decorate(ds)
	}
	return i
}

// NewLazyItem returns an Item that calls open on first use.
func NewLazyItem(name string, open Opener, opts ...ItemOption) *Item {
	return newItem(name, open, opts)
}

func newItem(name string, open Opener, opts []ItemOption) *Item {
	i := &Item{name: name, open: open}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Item) decorate(ds DataSource) DataSource {
	for _, d := range i.decorators {
		ds = d(ds)
	}
	return ds
}

// Name returns the name the Item is routed under.
func (i *Item) Name() string { return i.name }

// RealDataSource returns the undecorated data source, or nil if the Item is
// not provisioned.
func (i *Item) RealDataSource() DataSource {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.real == nil {
		return nil
	}
	return i.real
}

// Unwrap returns the decorated data source, or nil if the Item is not provisioned.
func (i *Item) Unwrap() DataSource {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.decorated == nil {
		return nil
	}
	return i.decorated
}

// Provision opens a lazy Item. It is a no-op once the Item holds a data source.
// Hooks registered with OnProvision run after a successful open, outside the
// Item's lock.
func (i *Item) Provision(ctx context.Context) error {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return ErrClosed
	}
	if i.real != nil {
		i.mu.Unlock()
		return nil
	}
	if i.open == nil {
		i.mu.Unlock()
		return fmt.Errorf("data source %q has no opener", i.name)
	}

	ds, err := i.open(ctx)
	if err != nil {
		i.mu.Unlock()
		return fmt.Errorf("provisioning data source %q: %w", i.name, err)
	}
	i.real = ds
	i.decorated = i.decorate(ds)
	hooks := append([]func(context.Context, *Item){}, i.hooks...)
	i.mu.Unlock()

	for _, hook := range hooks {
		hook(ctx, i)
	}
	return nil
}

// OnProvision registers fn to run each time Provision opens the data source.
// It is not called for Items created with NewItem.
func (i *Item) OnProvision(fn func(ctx context.Context, item *Item)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.hooks = append(i.hooks, fn)
}

func (i *Item) target(ctx context.Context) (DataSource, error) {
	if err := i.Provision(ctx); err != nil {
		return nil, err
	}
	if ds := i.Unwrap(); ds != nil {
		return ds, nil
	}
	return nil, ErrClosed
}

// Conn provisions the Item if needed and returns a connection from its
// decorated data source.
func (i *Item) Conn(ctx context.Context) (*sql.Conn, error) {
	ds, err := i.target(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Conn(ctx)
}

// Ping provisions the Item if needed and pings its decorated data source.
func (i *Item) Ping(ctx context.Context) error {
	ds, err := i.target(ctx)
	if err != nil {
		return err
	}
	return ds.Ping(ctx)
}

// Close closes the decorated data source, if any. Decorators are expected
// to close what they wrap.
func (i *Item) Close() error {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return nil
	}
	i.closed = true
	ds := i.decorated
	i.mu.Unlock()

	if ds == nil {
		return nil
	}
	return ds.Close()
}

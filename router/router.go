package router

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aalemi-dev/dynamic-datasource/datasource"
)

// DefaultPrimary is the data source used when the context carries no key.
const DefaultPrimary = "master"

// Logger is the subset of logger.Logger used by this package.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Option configures a Router.
type Option func(*Router)

// WithPrimary sets the fallback data source name.
func WithPrimary(name string) Option {
	return func(r *Router) {
		if name != "" {
			r.primary = name
		}
	}
}

// WithStrict makes unknown keys an error instead of falling back to the primary.
func WithStrict(strict bool) Option {
	return func(r *Router) { r.strict = strict }
}

// WithStrategy sets how a group member is chosen.
func WithStrategy(s Strategy) Option {
	return func(r *Router) {
		if s != nil {
			r.strategy = s
		}
	}
}

// WithLogger sets the logger for data source additions, removals and close failures.
func WithLogger(logger Logger) Option {
	return func(r *Router) { r.logger = logger }
}

// Router is a DataSource that forwards each call to the data source selected
// by the context's routing key.
type Router struct {
	primary  string
	strict   bool
	strategy Strategy
	logger   Logger

	mu        sync.RWMutex
	sources   map[string]datasource.DataSource
	groups    map[string][]string
	listeners []func(ctx context.Context)
}

// New returns an empty Router.
//
// Parameters:
//   - opts: Primary name, strictness, strategy and logger
//
// Returns a Router with no data sources. Without WithStrategy, groups are
// load balanced.
func New(opts ...Option) *Router {
	r := &Router{
		primary:  DefaultPrimary,
		strategy: &LoadBalanceStrategy{},
		sources:  make(map[string]datasource.DataSource),
		groups:   make(map[string][]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Primary returns the fallback data source name.
func (r *Router) Primary() string { return r.primary }

// AddDataSource registers ds under name. An existing data source of the same
// name is replaced and closed.
func (r *Router) AddDataSource(ctx context.Context, name string, ds datasource.DataSource) {
	r.mu.Lock()
	old, replaced := r.sources[name]
	r.sources[name] = ds
	if !replaced {
		if group, ok := groupOf(name); ok {
			r.groups[group] = insertSorted(r.groups[group], name)
		}
	}
	r.mu.Unlock()

	if replaced && old != nil {
		if err := old.Close(); err != nil {
			r.logWarn(ctx, "Failed to close replaced data source", err, name)
		}
	}
	r.logInfo(ctx, "Data source added", name)
	r.notify(ctx)
}

// RemoveDataSource unregisters and closes the data source called name.
func (r *Router) RemoveDataSource(ctx context.Context, name string) error {
	r.mu.Lock()
	ds, ok := r.sources[name]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrDataSourceNotFound, name)
	}
	delete(r.sources, name)
	if group, ok := groupOf(name); ok {
		members := removeName(r.groups[group], name)
		if len(members) == 0 {
			delete(r.groups, group)
		} else {
			r.groups[group] = members
		}
	}
	r.mu.Unlock()

	var err error
	if ds != nil {
		err = ds.Close()
	}
	r.logInfo(ctx, "Data source removed", name)
	r.notify(ctx)
	return err
}

// CurrentDataSources returns a snapshot of the registered data sources.
// Later changes to the router do not affect it.
func (r *Router) CurrentDataSources() map[string]datasource.DataSource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]datasource.DataSource, len(r.sources))
	for name, ds := range r.sources {
		out[name] = ds
	}
	return out
}

// DataSource returns the data source registered as name.
func (r *Router) DataSource(name string) (datasource.DataSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ds, ok := r.sources[name]
	return ds, ok
}

// Groups returns the group names and their members, ordered by name.
func (r *Router) Groups() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]string, len(r.groups))
	for group, members := range r.groups {
		out[group] = append([]string(nil), members...)
	}
	return out
}

// OnChange registers fn to be called after every AddDataSource and
// RemoveDataSource, and whenever a caller reports a change with NotifyChange.
func (r *Router) OnChange(fn func(ctx context.Context)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// NotifyChange runs the OnChange listeners. It is used when a registered data
// source changes in place, such as a lazy item being provisioned.
func (r *Router) NotifyChange(ctx context.Context) {
	r.notify(ctx)
}

func (r *Router) notify(ctx context.Context) {
	r.mu.RLock()
	listeners := append([]func(context.Context){}, r.listeners...)
	r.mu.RUnlock()

	for _, fn := range listeners {
		fn(ctx)
	}
}

// DetermineDataSource resolves the routing key of ctx: a group first, then
// an exact name, then the primary. In strict mode a key that matches nothing
// is an error.
func (r *Router) DetermineDataSource(ctx context.Context) (datasource.DataSource, error) {
	key := DataSourceKeyFromContext(ctx)

	r.mu.RLock()
	if len(r.sources) == 0 {
		r.mu.RUnlock()
		return nil, ErrNoDataSources
	}

	if key != "" {
		if members, ok := r.groups[key]; ok {
			candidates := make([]datasource.DataSource, 0, len(members))
			for _, name := range members {
				candidates = append(candidates, r.sources[name])
			}
			r.mu.RUnlock()
			return r.strategy.Determine(key, candidates), nil
		}
		if ds, ok := r.sources[key]; ok {
			r.mu.RUnlock()
			return ds, nil
		}
		if r.strict {
			r.mu.RUnlock()
			return nil, fmt.Errorf("%w: %q", ErrDataSourceNotFound, key)
		}
	}

	ds, ok := r.sources[r.primary]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: primary %q", ErrDataSourceNotFound, r.primary)
	}
	return ds, nil
}

// Conn returns a connection from the data source DetermineDataSource picks
// for the routing key in ctx.
func (r *Router) Conn(ctx context.Context) (*sql.Conn, error) {
	ds, err := r.DetermineDataSource(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Conn(ctx)
}

// Ping pings the data source the routing key in ctx selects.
func (r *Router) Ping(ctx context.Context) error {
	ds, err := r.DetermineDataSource(ctx)
	if err != nil {
		return err
	}
	return ds.Ping(ctx)
}

// Close closes and removes every data source.
func (r *Router) Close() error {
	r.mu.Lock()
	sources := r.sources
	r.sources = make(map[string]datasource.DataSource)
	r.groups = make(map[string][]string)
	r.mu.Unlock()

	var errs []error
	for name, ds := range sources {
		if ds == nil {
			continue
		}
		if err := ds.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing data source %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// groupOf returns the part of name before the first underscore.
func groupOf(name string) (string, bool) {
	group, _, found := strings.Cut(name, "_")
	if !found || group == "" {
		return "", false
	}
	return group, true
}

func insertSorted(names []string, name string) []string {
	i := sort.SearchStrings(names, name)
	names = append(names, "")
	copy(names[i+1:], names[i:])
	names[i] = name
	return names
}

func removeName(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

func (r *Router) logInfo(ctx context.Context, msg, name string) {
	if r.logger != nil {
		r.logger.InfoWithContext(ctx, msg, nil, map[string]interface{}{"datasource": name})
	}
}

func (r *Router) logWarn(ctx context.Context, msg string, err error, name string) {
	if r.logger != nil {
		r.logger.WarnWithContext(ctx, msg, err, map[string]interface{}{"datasource": name})
	}
}

var _ datasource.DataSource = (*Router)(nil)

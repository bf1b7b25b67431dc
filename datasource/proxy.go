package datasource

import (
	"context"
	"database/sql"

	"github.com/aalemi-dev/dynamic-datasource/unwrap"
)

// Interceptor runs around one call made through a Proxy. It must call
// proceed to let the call through, and may replace ctx on the way.
type Interceptor func(ctx context.Context, method string, proceed func(ctx context.Context) error) error

// InvocationHandler dispatches the calls of a Proxy to its target through
// the interceptor chain.
type InvocationHandler struct {
	target       DataSource
	interceptors []Interceptor
}

// Target returns the data source calls are dispatched to.
func (h *InvocationHandler) Target() any {
	if h.target == nil {
		return nil
	}
	return h.target
}

// Invoke runs call against the target, wrapped by the interceptors. The
// first interceptor is outermost.
func (h *InvocationHandler) Invoke(ctx context.Context, method string, call func(ctx context.Context, ds DataSource) error) error {
	if h.target == nil {
		return ErrClosed
	}

	next := func(ctx context.Context) error { return call(ctx, h.target) }
	for idx := len(h.interceptors) - 1; idx >= 0; idx-- {
		interceptor, proceed := h.interceptors[idx], next
		next = func(ctx context.Context) error {
			return interceptor(ctx, method, proceed)
		}
	}
	return next(ctx)
}

// Proxy is a DataSource that holds no target of its own; every call goes
// through its InvocationHandler.
type Proxy struct {
	handler *InvocationHandler
}

// NewProxy returns a Proxy dispatching to target.
func NewProxy(target DataSource, interceptors ...Interceptor) *Proxy {
	return &Proxy{handler: &InvocationHandler{target: target, interceptors: interceptors}}
}

// InvocationHandler returns the handler every call is routed through.
func (p *Proxy) InvocationHandler() unwrap.Handler { return p.handler }

// Conn invokes "Conn" through the handler.
func (p *Proxy) Conn(ctx context.Context) (*sql.Conn, error) {
	var conn *sql.Conn
	err := p.handler.Invoke(ctx, "Conn", func(ctx context.Context, ds DataSource) error {
		c, err := ds.Conn(ctx)
		conn = c
		return err
	})
	return conn, err
}

// Ping invokes "Ping" through the handler.
func (p *Proxy) Ping(ctx context.Context) error {
	return p.handler.Invoke(ctx, "Ping", func(ctx context.Context, ds DataSource) error {
		return ds.Ping(ctx)
	})
}

// Close invokes "Close" through the handler.
func (p *Proxy) Close() error {
	return p.handler.Invoke(context.Background(), "Close", func(_ context.Context, ds DataSource) error {
		return ds.Close()
	})
}

package datasource

import (
	"context"
	"database/sql"
	"time"

	"github.com/aalemi-dev/dynamic-datasource/observability"
)

// Observed reports every call on a data source to an observer.
type Observed struct {
	name     string
	target   DataSource
	observer observability.Observer
}

// NewObserved decorates target. A nil observer makes it a pass-through.
func NewObserved(name string, target DataSource, observer observability.Observer) *Observed {
	return &Observed{name: name, target: target, observer: observer}
}

// Unwrap returns the wrapped data source.
func (o *Observed) Unwrap() DataSource { return o.target }

// Conn forwards to the wrapped data source and reports a "conn" operation.
func (o *Observed) Conn(ctx context.Context) (*sql.Conn, error) {
	start := time.Now()
	conn, err := o.target.Conn(ctx)
	o.observe("conn", start, err)
	return conn, err
}

// Ping forwards to the wrapped data source and reports a "ping" operation.
func (o *Observed) Ping(ctx context.Context) error {
	start := time.Now()
	err := o.target.Ping(ctx)
	o.observe("ping", start, err)
	return err
}

// Close forwards to the wrapped data source and reports a "close" operation.
func (o *Observed) Close() error {
	start := time.Now()
	err := o.target.Close()
	o.observe("close", start, err)
	return err
}

func (o *Observed) observe(operation string, start time.Time, err error) {
	if o.observer == nil {
		return
	}
	o.observer.ObserveOperation(observability.OperationContext{
		Component: "datasource",
		Operation: operation,
		Resource:  o.name,
		Duration:  time.Since(start),
		Error:     err,
	})
}

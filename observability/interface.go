// Package observability defines the hook through which the data-source
// packages report what they do, without tying them to a metrics or tracing
// backend.
package observability

import "time"

// Observer receives one notification per completed operation. Implementations
// must be safe for concurrent use and must not block.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes a completed operation.
type OperationContext struct {
	// Component is the reporting package, e.g. "datasource" or "dsmetrics".
	Component string

	// Operation is what happened: "conn", "ping", "close", "bind".
	Operation string

	// Resource is the data source or pool name the operation targeted.
	Resource string

	// SubResource optionally narrows Resource, e.g. the routing key that
	// selected the data source.
	SubResource string

	Duration time.Duration

	// Error is nil on success.
	Error error

	// Metadata holds operation-specific extras.
	Metadata map[string]interface{}
}

package metrics

import (
	"errors"
	"fmt"

	"github.com/aalemi-dev/dynamic-datasource/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// OperationObserver is an observability.Observer that turns every reported
// operation into Prometheus series:
//
//	datasource_operations_total{component, operation, resource, status}
//	datasource_operation_duration_seconds{component, operation}
type OperationObserver struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
}

// NewOperationObserver registers the operation series on registerer.
//
// Parameters:
//   - registerer: Where datasource_operations_total and
//     datasource_operation_duration_seconds are registered
//
// Returns the observer, or an error when registerer is nil or registration fails.
func NewOperationObserver(registerer prometheus.Registerer) (*OperationObserver, error) {
	if registerer == nil {
		return nil, errors.New("metrics: registerer is nil")
	}

	o := &OperationObserver{
		operations: newCounterVec(
			"datasource_operations_total",
			"Data-source operations by outcome.",
			[]string{"component", "operation", "resource", "status"},
		),
		durations: newHistogramVec(
			"datasource_operation_duration_seconds",
			"Duration of data-source operations.",
			[]string{"component", "operation"},
			prometheus.DefBuckets,
		),
	}

	for _, c := range []prometheus.Collector{o.operations, o.durations} {
		if err := registerer.Register(c); err != nil {
			return nil, fmt.Errorf("registering operation metrics: %w", err)
		}
	}
	return o, nil
}

// ObserveOperation counts the operation by resource and status and records
// its duration per component and operation.
func (o *OperationObserver) ObserveOperation(ctx observability.OperationContext) {
	status := "success"
	if ctx.Error != nil {
		status = "error"
	}
	o.operations.WithLabelValues(ctx.Component, ctx.Operation, ctx.Resource, status).Inc()
	o.durations.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())
}

func newCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

func newHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
}

var _ observability.Observer = (*OperationObserver)(nil)

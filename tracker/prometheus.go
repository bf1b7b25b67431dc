package tracker

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ErrNilRegisterer is returned by NewPrometheusFactory without a registerer.
var ErrNilRegisterer = errors.New("tracker: prometheus registerer is nil")

// DefaultNamespace prefixes the series created by PrometheusFactory.
const DefaultNamespace = "datasource"

// DefaultBuckets covers sub-millisecond pool hits up to multi-second waits.
var DefaultBuckets = []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// PrometheusFactory registers per-pool collectors on a prometheus.Registerer.
//
// Every pool gets the database/sql statistics collector plus an acquisition
// histogram, a usage histogram and a timeout counter, all labelled with the
// pool name. Creating two trackers for the same pool name on the same
// registerer fails with a prometheus.AlreadyRegisteredError.
type PrometheusFactory struct {
	registerer prometheus.Registerer
	namespace  string
	buckets    []float64
}

// Option customizes a PrometheusFactory.
type Option func(*PrometheusFactory)

// WithNamespace overrides DefaultNamespace.
func WithNamespace(namespace string) Option {
	return func(f *PrometheusFactory) {
		if namespace != "" {
			f.namespace = namespace
		}
	}
}

// WithBuckets overrides DefaultBuckets for both histograms.
func WithBuckets(buckets []float64) Option {
	return func(f *PrometheusFactory) {
		if len(buckets) > 0 {
			f.buckets = buckets
		}
	}
}

// NewPrometheusFactory returns a factory bound to registerer.
//
// Parameters:
//   - registerer: Where each created tracker registers its pool collectors
//   - opts: Namespace and histogram bucket overrides
//
// Returns the factory, or an error when registerer is nil.
func NewPrometheusFactory(registerer prometheus.Registerer, opts ...Option) (*PrometheusFactory, error) {
	if registerer == nil {
		return nil, ErrNilRegisterer
	}
	f := &PrometheusFactory{
		registerer: registerer,
		namespace:  DefaultNamespace,
		buckets:    DefaultBuckets,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Create registers the collectors of poolName. db may be nil, in which case
// the database/sql statistics are not exported. On error nothing stays
// registered.
func (f *PrometheusFactory) Create(poolName string, db *sql.DB) (Tracker, error) {
	labels := prometheus.Labels{"pool": poolName}

	t := &prometheusTracker{
		registerer: f.registerer,
		acquire: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   f.namespace,
			Subsystem:   "pool",
			Name:        "connection_acquire_seconds",
			Help:        "Time spent waiting for a connection from the pool.",
			Buckets:     f.buckets,
			ConstLabels: labels,
		}),
		usage: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   f.namespace,
			Subsystem:   "pool",
			Name:        "connection_usage_seconds",
			Help:        "Time a connection was held before being returned to the pool.",
			Buckets:     f.buckets,
			ConstLabels: labels,
		}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   f.namespace,
			Subsystem:   "pool",
			Name:        "connection_timeouts_total",
			Help:        "Connection acquisitions abandoned because the context deadline passed.",
			ConstLabels: labels,
		}),
	}

	toRegister := []prometheus.Collector{t.acquire, t.usage, t.timeouts}
	if db != nil {
		toRegister = append(toRegister, collectors.NewDBStatsCollector(db, poolName))
	}

	for _, c := range toRegister {
		if err := f.registerer.Register(c); err != nil {
			t.unregisterAll()
			return nil, fmt.Errorf("registering metrics of pool %q: %w", poolName, err)
		}
		t.registered = append(t.registered, c)
	}

	return t, nil
}

type prometheusTracker struct {
	registerer prometheus.Registerer
	registered []prometheus.Collector

	acquire  prometheus.Histogram
	usage    prometheus.Histogram
	timeouts prometheus.Counter

	closeOnce sync.Once
}

// RecordConnectionAcquired observes the time spent waiting for a connection.
func (t *prometheusTracker) RecordConnectionAcquired(elapsed time.Duration) {
	t.acquire.Observe(elapsed.Seconds())
}

// RecordConnectionUsage observes how long a connection was held.
func (t *prometheusTracker) RecordConnectionUsage(elapsed time.Duration) {
	t.usage.Observe(elapsed.Seconds())
}

// RecordConnectionTimeout counts a failed acquisition that timed out.
func (t *prometheusTracker) RecordConnectionTimeout() {
	t.timeouts.Inc()
}

// Close unregisters the pool collectors.
func (t *prometheusTracker) Close() error {
	t.closeOnce.Do(t.unregisterAll)
	return nil
}

func (t *prometheusTracker) unregisterAll() {
	for _, c := range t.registered {
		t.registerer.Unregister(c)
	}
	t.registered = nil
}

var _ Factory = (*PrometheusFactory)(nil)

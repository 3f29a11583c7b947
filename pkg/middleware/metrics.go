package middleware

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	navErrors "github.com/wayfind-go/wayfind/internal/errors"
	"github.com/wayfind-go/wayfind/pkg/router"
)

// MetricsConfig configures the Prometheus navigation metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "wayfind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus navigation metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "wayfind",
		Subsystem:   "",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for the navigation pipeline.
type metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
}

// globalMetrics is the singleton metrics instance, created on first use.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

// initMetrics initializes the Prometheus metrics.
func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of committed navigations by route",
			ConstLabels: config.ConstLabels,
		}, []string{"route"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Time from navigation request to commit in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of navigation errors by category",
			ConstLabels: config.ConstLabels,
		}, []string{"category"}),
	}
}

// Prometheus instruments a router with Prometheus navigation metrics.
//
// Metrics collected:
//   - wayfind_navigations_total: Counter of committed navigations by route
//   - wayfind_navigation_duration_seconds: Histogram of request-to-commit time
//   - wayfind_navigation_errors_total: Counter of navigation errors by category
//
// The route label uses the matched leaf pattern (e.g. "/users/:id"), not
// the concrete path, to keep cardinality bounded.
//
// The returned function unhooks the instrumentation.
//
// Example:
//
//	unhook := middleware.Prometheus(rt, middleware.WithNamespace("myapp"))
//	defer unhook()
//
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(rt *router.Router, opts ...MetricsOption) func() {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	// One navigation is in flight per router at a time; the latest
	// attempt's start time wins if a navigation is superseded.
	var (
		startMu sync.Mutex
		started time.Time
	)

	unBefore := rt.OnBeforeNavigation(func(current, pending *router.Route) {
		startMu.Lock()
		started = time.Now()
		startMu.Unlock()
	})

	unChanged := rt.OnNavigationChanged(func(outgoing, committed *router.Route) {
		route := routeLabel(committed)
		m.navigationsTotal.WithLabelValues(route).Inc()

		startMu.Lock()
		t := started
		startMu.Unlock()
		if !t.IsZero() {
			m.navigationDuration.WithLabelValues(route).Observe(time.Since(t).Seconds())
		}
	})

	unError := rt.OnError(func(err error) {
		m.navigationErrors.WithLabelValues(categorizeError(err)).Inc()
	})

	return func() {
		unBefore()
		unChanged()
		unError()
	}
}

// routeLabel returns the matched leaf pattern for a committed route.
func routeLabel(r *router.Route) string {
	if r == nil || len(r.Matched) == 0 {
		return "/"
	}
	return r.Matched[len(r.Matched)-1].Path
}

// categorizeError maps an error to its navigation category, keeping
// label cardinality bounded.
func categorizeError(err error) string {
	var ne *navErrors.NavError
	if errors.As(err, &ne) && ne.Category != "" {
		return string(ne.Category)
	}
	return "internal"
}

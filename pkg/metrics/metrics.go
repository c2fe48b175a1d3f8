// Package metrics exports the activity of the reactivity core as Prometheus
// metrics.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/seven-it/Learn-Vue/pkg/observer"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "learnvue").
	Namespace string

	// Subsystem is the metrics subsystem (default: "reactivity").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for watcher runs per flush.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the flush size histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "learnvue",
		Subsystem: "reactivity",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector counts observer and scheduler activity. It implements
// observer.Instrumentation; pass Flushed to watcher.OnFlush to record
// scheduler flushes.
type Collector struct {
	observed      *prometheus.CounterVec
	notifications prometheus.Counter
	signalled     prometheus.Counter
	warnings      *prometheus.CounterVec
	flushes       prometheus.Counter
	flushSize     prometheus.Histogram
}

// New creates a Collector and registers its metrics.
//
// Metrics collected:
//   - learnvue_reactivity_observed_total: wrappers attached, by kind
//   - learnvue_reactivity_notifications_total: registry notifications
//   - learnvue_reactivity_subscribers_signalled_total: subscribers marked dirty
//   - learnvue_reactivity_warnings_total: warnings, by code
//   - learnvue_reactivity_flushes_total: scheduler flushes
//   - learnvue_reactivity_flush_runs: watcher runs per flush
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		observed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "observed_total",
			Help:        "Total number of containers made reactive",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		notifications: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of dependency notifications",
			ConstLabels: config.ConstLabels,
		}),

		signalled: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscribers_signalled_total",
			Help:        "Total number of subscribers marked dirty by notifications",
			ConstLabels: config.ConstLabels,
		}),

		warnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "warnings_total",
			Help:        "Total number of warnings by code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of scheduler flushes",
			ConstLabels: config.ConstLabels,
		}),

		flushSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_runs",
			Help:        "Number of watcher runs per scheduler flush",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Observed implements observer.Instrumentation.
func (c *Collector) Observed(kind string) {
	c.observed.WithLabelValues(kind).Inc()
}

// Notified implements observer.Instrumentation.
func (c *Collector) Notified(subscribers int) {
	c.notifications.Inc()
	c.signalled.Add(float64(subscribers))
}

// Warned implements observer.Instrumentation.
func (c *Collector) Warned(code string) {
	c.warnings.WithLabelValues(code).Inc()
}

// Flushed records a scheduler flush that ran the given number of watchers.
func (c *Collector) Flushed(ran int) {
	c.flushes.Inc()
	c.flushSize.Observe(float64(ran))
}

// WriteText writes every metric family gathered from g in the Prometheus
// text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

var _ observer.Instrumentation = (*Collector)(nil)

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portfolio"

// Collector owns the portfolio metric families and the registry they are
// exposed from. Every Collector has its own registry so tests and multiple
// containers never collide on registration.
type Collector struct {
	registry *prometheus.Registry

	RequestCount       *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	CommandCount       *prometheus.CounterVec
	CommandDuration    *prometheus.HistogramVec
	ContactSubmissions *prometheus.CounterVec
	RenderedBytes      prometheus.Histogram
	RateLimitBuckets   prometheus.Gauge
}

// Option customises a Collector.
type Option func(*options)

type options struct {
	runtime bool
}

// WithRuntimeCollectors registers the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(o *options) {
		o.runtime = true
	}
}

// New builds a Collector backed by a fresh registry.
func New(opts ...Option) *Collector {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	reg := prometheus.NewRegistry()
	if cfg.runtime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		RequestCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		CommandCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Total number of executed commands",
			},
			[]string{"command", "status"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Command execution duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		ContactSubmissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "contact_submissions_total",
				Help:      "Contact form submissions by outcome",
			},
			[]string{"outcome"},
		),
		RenderedBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "markdown_rendered_bytes",
				Help:      "Size of rendered Markdown previews in bytes",
				Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
			},
		),
		RateLimitBuckets: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "contact_rate_limit_buckets",
				Help:      "Number of tracked contact rate limit buckets",
			},
		),
	}
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveRequest records a served HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.RequestCount.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveCommand satisfies commands.Observer.
func (c *Collector) ObserveCommand(name, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.CommandCount.WithLabelValues(name, status).Inc()
	c.CommandDuration.WithLabelValues(name).Observe(duration.Seconds())
}

// ObserveContact records a contact submission outcome.
func (c *Collector) ObserveContact(outcome string) {
	if c == nil {
		return
	}
	c.ContactSubmissions.WithLabelValues(outcome).Inc()
}

// ObserveRender records the size of a rendered preview.
func (c *Collector) ObserveRender(size int) {
	if c == nil {
		return
	}
	c.RenderedBytes.Observe(float64(size))
}

// SetRateLimitBuckets reports the tracked limiter bucket count.
func (c *Collector) SetRateLimitBuckets(n int) {
	if c == nil {
		return
	}
	c.RateLimitBuckets.Set(float64(n))
}

package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "taskplan"

// Solve outcomes used as the "outcome" label.
const (
	OutcomeSelected = "selected"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
)

// PrometheusHooks implements every hook interface on Prometheus metrics.
//
// All operations are thread-safe via Prometheus's internal locking.
type PrometheusHooks struct {
	// SolvesTotal counts finished solves.
	// Labels: strategy, outcome (selected, empty, error)
	SolvesTotal *prometheus.CounterVec

	// SolveDurationSeconds measures solve latency.
	// Labels: strategy
	SolveDurationSeconds *prometheus.HistogramVec

	// FallbacksTotal counts Greedy substitutions by requested strategy.
	// Labels: from
	FallbacksTotal *prometheus.CounterVec

	// CacheEventsTotal counts cache lookups and writes.
	// Labels: event (hit, miss, set)
	CacheEventsTotal *prometheus.CounterVec

	// HTTPRequestsTotal counts API responses.
	// Labels: method, route, code
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDurationSeconds measures API handling time.
	// Labels: method, route
	HTTPRequestDurationSeconds *prometheus.HistogramVec
}

// NewPrometheusHooks creates the metrics and registers them with reg.
// It panics if they are already registered there.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		SolvesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "solves_total",
				Help:      "Total number of solves by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		SolveDurationSeconds: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "solve_duration_seconds",
				Help:      "Solve duration in seconds by strategy",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"strategy"},
		),
		FallbacksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "fallbacks_total",
				Help:      "Total number of Greedy fallbacks by requested strategy",
			},
			[]string{"from"},
		),
		CacheEventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "cache_events_total",
				Help:      "Total number of result cache events",
			},
			[]string{"event"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of API requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),
		HTTPRequestDurationSeconds: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "API request handling time in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (h *PrometheusHooks) OnSolveStart(context.Context, string, int) {}

func (h *PrometheusHooks) OnSolveComplete(_ context.Context, strategy string, selected int, d time.Duration, err error) {
	outcome := OutcomeSelected
	switch {
	case err != nil:
		outcome = OutcomeError
	case selected == 0:
		outcome = OutcomeEmpty
	}
	h.SolvesTotal.WithLabelValues(strategy, outcome).Inc()
	h.SolveDurationSeconds.WithLabelValues(strategy).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnFallback(_ context.Context, from, _ string) {
	h.FallbacksTotal.WithLabelValues(from).Inc()
}

func (h *PrometheusHooks) OnCacheHit(context.Context, string) {
	h.CacheEventsTotal.WithLabelValues("hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(context.Context, string) {
	h.CacheEventsTotal.WithLabelValues("miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(context.Context, string, int) {
	h.CacheEventsTotal.WithLabelValues("set").Inc()
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ SolverHooks = (*PrometheusHooks)(nil)
	_ CacheHooks  = (*PrometheusHooks)(nil)
	_ HTTPHooks   = (*PrometheusHooks)(nil)
)

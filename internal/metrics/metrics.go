// Package metrics exposes the service's prometheus collectors. A nil *Metrics is valid
// and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "contentfilter"

type Metrics struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	cacheLookups *prometheus.CounterVec
	mutations    *prometheus.CounterVec
	sanitized    prometheus.Counter
	maskedSpans  prometheus.Counter
	rateLimited  prometheus.Counter
	wordsInStore prometheus.Gauge
}

// New creates the collectors on a fresh registry that also carries the Go and process
// collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "word_cache_lookups_total",
			Help:      "Restricted word cache lookups by result.",
		}, []string{"result"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "word_mutations_total",
			Help:      "Restricted word mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		sanitized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sanitized_texts_total",
			Help:      "Texts passed through the sanitizer.",
		}),
		maskedSpans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "masked_spans_total",
			Help:      "Restricted word occurrences masked.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		wordsInStore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "restricted_words",
			Help:      "Restricted words seen on the last store read.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.cacheLookups,
		m.mutations,
		m.sanitized,
		m.maskedSpans,
		m.rateLimited,
		m.wordsInStore,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(route, method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// Mutation records one add, update or delete. outcome is "changed", "noop" or "error".
func (m *Metrics) Mutation(op, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) Sanitized(masked int) {
	if m == nil {
		return
	}
	m.sanitized.Inc()
	m.maskedSpans.Add(float64(masked))
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

func (m *Metrics) SetWordCount(n int) {
	if m == nil {
		return
	}
	m.wordsInStore.Set(float64(n))
}

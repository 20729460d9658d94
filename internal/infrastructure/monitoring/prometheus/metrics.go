// Package prometheus registers and exposes the application metrics.  A single
// Metrics value is built at startup against a private registry and injected
// into the components that record observations.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "pharmarisk"

var (
	httpDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	analysisDurationBuckets = []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30}
)

// Metrics holds every collector the application records into.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP layer.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Analysis layer.
	AnalysisTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	AlertsGenerated  *prometheus.CounterVec

	// Ingestion layer.
	RecordsNormalized *prometheus.CounterVec
	RecordsSkipped    *prometheus.CounterVec

	// Infrastructure.
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	KafkaPublishes   *prometheus.CounterVec
}

// NewMetrics builds and registers all collectors on a fresh registry,
// including the standard process and Go runtime collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	reg.MustRegister(prometheus.NewGoCollector())

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = newCounter(reg, "http_requests_total",
		"Total HTTP requests.", "method", "path", "status")
	m.HTTPRequestDuration = newHistogram(reg, "http_request_duration_seconds",
		"HTTP request duration.", httpDurationBuckets, "method", "path")

	m.AnalysisTotal = newCounter(reg, "analysis_total",
		"Completed analysis operations.", "operation", "status")
	m.AnalysisDuration = newHistogram(reg, "analysis_duration_seconds",
		"Analysis operation duration.", analysisDurationBuckets, "operation")
	m.AlertsGenerated = newCounter(reg, "alerts_generated_total",
		"Alerts produced per type and urgency.", "type", "urgency")

	m.RecordsNormalized = newCounter(reg, "records_normalized_total",
		"Source records normalized into events.", "source", "kind")
	m.RecordsSkipped = newCounter(reg, "records_skipped_total",
		"Source records dropped during normalization.", "source", "reason")

	m.CacheHitsTotal = newCounter(reg, "cache_hits_total",
		"Cache hits.", "cache")
	m.CacheMissesTotal = newCounter(reg, "cache_misses_total",
		"Cache misses.", "cache")
	m.KafkaPublishes = newCounter(reg, "kafka_publishes_total",
		"Messages published to Kafka.", "topic", "status")

	return m
}

func newCounter(reg *prometheus.Registry, name, help string, labels ...string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
	}, labels)
	reg.MustRegister(c)
	return c
}

func newHistogram(reg *prometheus.Registry, name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
	reg.MustRegister(h)
	return h
}

// Handler returns the scrape endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAnalysis records one completed analysis operation.
func (m *Metrics) ObserveAnalysis(operation string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.AnalysisTotal.WithLabelValues(operation, status).Inc()
	m.AnalysisDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RecordCacheAccess records a cache hit or miss.
func (m *Metrics) RecordCacheAccess(cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

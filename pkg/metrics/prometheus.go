// Package metrics provides Prometheus metrics for the inference bridge.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// latencyBuckets covers sub-millisecond microcontroller models up to slow
// delegates, in milliseconds.
var latencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100}

// Manager owns the inference metrics. A nil *Manager is valid and records
// nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	inferences       prometheus.Counter
	failures         *prometheus.CounterVec
	inferenceLatency prometheus.Histogram
	lastScore        prometheus.Gauge
}

// NewManager creates a metrics manager. Without WithRegistry it uses a private
// registry so the Go runtime collectors stay out of the exposition.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "edge",
		subsystem:        "inference",
		histogramBuckets: latencyBuckets,
		enabled:          true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.inferences = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inferences_total",
		Help:      "Total number of classifier invocations",
	})

	m.failures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inference_failures_total",
		Help:      "Classifier invocations that returned a non-OK status, by status code",
	}, []string{"status"})

	m.inferenceLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inference_latency_milliseconds",
		Help:      "Wall time of a classifier invocation in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.lastScore = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_score",
		Help:      "Top classification value of the most recent successful inference",
	})
}

// ObserveInference records one classifier call.
func (m *Manager) ObserveInference(elapsed time.Duration, status int32, score float32) {
	if m == nil || !m.enabled {
		return
	}
	m.inferences.Inc()
	m.inferenceLatency.Observe(float64(elapsed) / float64(time.Millisecond))
	if status != 0 {
		m.failures.WithLabelValues(strconv.Itoa(int(status))).Inc()
		return
	}
	m.lastScore.Set(float64(score))
}

// Registry returns the registry the metrics live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

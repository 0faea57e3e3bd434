// Package metrics exports complaint AI pipeline metrics in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hrygo/complaintdesk/ai/fallback"
)

const (
	namespace = "complaintdesk"
	subsystem = "ai"
)

// PrometheusExporter records model attempts, local fallbacks and quick
// question cache lookups. It implements fallback.Recorder and cache.Observer.
type PrometheusExporter struct {
	registry *prometheus.Registry

	attempts       *prometheus.CounterVec
	attemptLatency *prometheus.HistogramVec
	fallbacks      *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64

	// ProcessCollectors adds Go runtime and process metrics.
	ProcessCollectors bool
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets:    []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		ProcessCollectors: true,
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter.
func NewPrometheusExporter(cfg Config) *PrometheusExporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &PrometheusExporter{registry: registry}

	e.attempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "attempts_total",
			Help:      "Model attempts by operation, model and outcome",
		},
		[]string{"operation", "model", "status"},
	)

	e.attemptLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "attempt_latency_seconds",
			Help:      "Model attempt latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"operation", "model"},
	)

	e.fallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "fallbacks_total",
			Help:      "Operations answered locally after every model failed",
		},
		[]string{"operation"},
	)

	e.cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "question_cache_total",
			Help:      "Quick question cache lookups by result",
		},
		[]string{"result"},
	)

	registry.MustRegister(e.attempts, e.attemptLatency, e.fallbacks, e.cacheLookups)
	if cfg.ProcessCollectors {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return e
}

// ObserveAttempt records one model attempt. Skipped attempts never reached
// the provider and have no latency sample.
func (e *PrometheusExporter) ObserveAttempt(operation string, rec fallback.AttemptRecord) {
	model := rec.Model.String()
	e.attempts.WithLabelValues(operation, model, string(rec.Status)).Inc()
	if rec.Status != fallback.StatusSkipped {
		e.attemptLatency.WithLabelValues(operation, model).Observe(rec.Duration.Seconds())
	}
}

// ObserveFallback records a local fallback for operation.
func (e *PrometheusExporter) ObserveFallback(operation string) {
	e.fallbacks.WithLabelValues(operation).Inc()
}

// ObserveCacheLookup records a quick question cache hit or miss.
func (e *PrometheusExporter) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	e.cacheLookups.WithLabelValues(result).Inc()
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Snapshot returns attempt counts keyed by "operation/status".
func (e *PrometheusExporter) Snapshot() (map[string]float64, error) {
	families, err := e.registry.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, mf := range families {
		if mf.GetName() != namespace+"_"+subsystem+"_attempts_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var operation, status string
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "operation":
					operation = lp.GetValue()
				case "status":
					status = lp.GetValue()
				}
			}
			out[operation+"/"+status] += m.GetCounter().GetValue()
		}
	}
	return out, nil
}

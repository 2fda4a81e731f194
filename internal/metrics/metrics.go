// Package metrics provides the centralized Prometheus metrics registry for the matchup analyzer.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	AnalysesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nba_edge",
		Name:      "analyses_total",
		Help:      "Total number of matchup analyses run",
	})
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nba_edge",
		Name:      "predictions_total",
		Help:      "Total number of predictions by fallback status",
	}, []string{"fallback"})
	ExportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nba_edge",
		Name:      "exports_total",
		Help:      "Total number of report exports by format",
	}, []string{"format"})
)

// Gauge metrics
var (
	ConnectedDashboards = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nba_edge",
		Name:      "connected_dashboards",
		Help:      "Number of currently connected WebSocket dashboard clients",
	})
)

// Histogram metrics
var (
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nba_edge",
		Name:      "analysis_duration_seconds",
		Help:      "Duration of full matchup analyses in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(AnalysesTotal)
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(ExportsTotal)
		registry.MustRegister(ConnectedDashboards)
		registry.MustRegister(AnalysisDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler. The default gatherer is
// included so per-package promauto metrics are exported too.
func Handler() http.Handler {
	gatherers := prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// RecordAnalysis records a completed matchup analysis.
func RecordAnalysis(durationSeconds float64) {
	AnalysesTotal.Inc()
	AnalysisDuration.Observe(durationSeconds)
}

// RecordPrediction records a prediction, tagged by whether it degraded
// to the neutral fallback.
func RecordPrediction(fallback bool) {
	label := "false"
	if fallback {
		label = "true"
	}
	PredictionsTotal.WithLabelValues(label).Inc()
}

// RecordExport records a report export.
func RecordExport(format string) {
	ExportsTotal.WithLabelValues(format).Inc()
}

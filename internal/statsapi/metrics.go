// Package statsapi provides the NBA stats provider client.
package statsapi

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequestsTotal tracks stats API requests by endpoint and status
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of stats provider requests",
		},
		[]string{"endpoint", "status"},
	)

	// ProviderRequestLatency tracks stats API request latency
	ProviderRequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_latency_seconds",
			Help:    "Stats provider request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// ProviderCacheHitRatio tracks the provider cache hit ratio
	ProviderCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "provider_cache_hit_ratio",
			Help: "Stats provider cache hit ratio",
		},
	)
)

// observeProviderRequest records one provider round trip. The endpoint
// label is collapsed to its path family to keep cardinality bounded.
func observeProviderRequest(endpoint, status string, elapsed time.Duration) {
	family := endpointFamily(endpoint)
	ProviderRequestsTotal.WithLabelValues(family, status).Inc()
	ProviderRequestLatency.WithLabelValues(family).Observe(elapsed.Seconds())
}

func endpointFamily(endpoint string) string {
	switch {
	case strings.Contains(endpoint, "/stats/team-efficiency"):
		return "team_efficiency"
	case strings.Contains(endpoint, "/games"):
		return "game_log"
	case strings.Contains(endpoint, "/teams"):
		return "teams"
	default:
		return "other"
	}
}

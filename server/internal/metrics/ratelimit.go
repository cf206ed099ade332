package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RateLimitChecks counts rate limit checks by limiter and result.
	RateLimitChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuro_admin_ratelimit_checks_total",
			Help: "Total number of rate limit checks",
		},
		[]string{"limit_type", "allowed"},
	)

	// RateLimitTrackedClients tracks how many clients have a live bucket.
	RateLimitTrackedClients = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neuro_admin_ratelimit_tracked_clients",
			Help: "Number of clients with an active rate limit bucket",
		},
		[]string{"limit_type"},
	)
)

func registerRateLimitMetrics() error {
	return registerAll(RateLimitChecks, RateLimitTrackedClients)
}

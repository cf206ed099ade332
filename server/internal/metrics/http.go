package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts admin API requests by method, route and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuro_admin_http_requests_total",
			Help: "Total number of admin API requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures admin API latency per route.
	// Cluster setup uploads are the slowest calls and stay well under a few seconds.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neuro_admin_http_request_duration_seconds",
			Help:    "Admin API request duration in seconds",
			Buckets: []float64{.005, .025, .1, .5, 2.5},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks requests currently being served.
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "neuro_admin_http_requests_in_flight",
			Help: "Number of admin API requests currently being processed",
		},
	)
)

// ObserveRequest records one finished request against its route template.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func registerHTTPMetrics() error {
	return registerAll(HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight)
}

// Package metrics provides Prometheus metrics for the neuro admin server.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the global Prometheus registry for all metrics.
	Registry = prometheus.NewRegistry()

	mu          sync.Mutex
	initialized = false
)

// Init registers every collector with Registry. Repeated calls are no-ops.
func Init() error {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return nil
	}

	if err := Registry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	if err := Registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return err
	}

	for _, register := range []func() error{
		registerHTTPMetrics,
		registerRateLimitMetrics,
		registerDatabaseMetrics,
		registerAdminMetrics,
	} {
		if err := register(); err != nil {
			return err
		}
	}

	initialized = true
	return nil
}

// MustInit initializes metrics and panics on error.
func MustInit() {
	if err := Init(); err != nil {
		panic("failed to initialize metrics: " + err.Error())
	}
}

func registerAll(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func registerAdminMetrics() error {
	return registerAll(ClusterCount, AdminOperations)
}

var (
	// ClusterCount tracks the number of clusters by status.
	ClusterCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neuro_admin_clusters",
			Help: "Number of clusters by status",
		},
		[]string{"status"},
	)

	// AdminOperations counts mutating admin operations by resource and outcome.
	AdminOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuro_admin_operations_total",
			Help: "Total number of admin operations",
		},
		[]string{"resource", "operation", "status"},
	)
)

// RecordOperation counts one admin operation. err decides the status label.
func RecordOperation(resource, operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	AdminOperations.WithLabelValues(resource, operation, status).Inc()
}

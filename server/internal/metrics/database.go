package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// DBQueryDuration measures store operations such as add_user or update_quota.
	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neuro_admin_db_query_duration_seconds",
			Help:    "Store operation duration in seconds",
			Buckets: []float64{.0005, .002, .01, .05, .25},
		},
		[]string{"operation", "status"},
	)

	// DBConnections reports the SQLite pool by state: open, idle or in_use.
	DBConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neuro_admin_db_connections",
			Help: "Database connections by state",
		},
		[]string{"state"},
	)
)

// ObserveQuery records one store operation. err decides the status label.
func ObserveQuery(op string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DBQueryDuration.WithLabelValues(op, status).Observe(elapsed.Seconds())
}

// SetPoolStats publishes a snapshot of the connection pool.
func SetPoolStats(stats sql.DBStats) {
	DBConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	DBConnections.WithLabelValues("idle").Set(float64(stats.Idle))
	DBConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
}

func registerDatabaseMetrics() error {
	return registerAll(DBQueryDuration, DBConnections)
}

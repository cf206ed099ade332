package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neuromation/neuro-admin/server/internal/metrics"
)

// Metrics creates a middleware that collects Prometheus metrics for HTTP requests.
// Paths are recorded by route template so cluster and user names do not
// explode label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

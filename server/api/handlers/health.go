package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neuromation/neuro-admin/models"
	"github.com/neuromation/neuro-admin/server/internal/database"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db         *sql.DB
	instanceID string
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(db *sql.DB, instanceID string) *HealthHandler {
	return &HealthHandler{db: db, instanceID: instanceID}
}

// Liveness handles GET /health/live. It answers 200 while the process serves HTTP.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok", InstanceID: h.instanceID})
}

// Readiness handles GET /health/ready.
//
// Returns:
//   - 200 OK if the database answers a ping
//   - 503 Service Unavailable otherwise
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		respondError(c, http.StatusServiceUnavailable, "unhealthy", "Database unavailable")
		return
	}
	database.RecordStats(h.db)

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:     "ready",
		InstanceID: h.instanceID,
		Database:   "connected",
	})
}

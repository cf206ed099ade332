// Package api wires the neuro admin HTTP API: routing, middleware and handlers.
package api

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/neuromation/neuro-admin/pkg/token"
	"github.com/neuromation/neuro-admin/server/api/handlers"
	"github.com/neuromation/neuro-admin/server/api/middleware"
	"github.com/neuromation/neuro-admin/server/internal/metrics"
	"github.com/neuromation/neuro-admin/server/internal/service"
)

// Default per-IP rate limit.
const (
	DefaultRateLimit = 100.0
	DefaultBurst     = 200
)

// RouterConfig holds configuration for setting up the HTTP router.
type RouterConfig struct {
	// DB is the migrated database connection.
	DB *sql.DB

	// Logger is the Zap logger for request logging.
	Logger *zap.Logger

	// Verifier checks the admin bearer token.
	Verifier *token.Verifier

	// InstanceID identifies this server in health responses.
	InstanceID string

	// AllowOrigins is the list of allowed CORS origins; empty disables CORS.
	AllowOrigins []string

	// RateLimit is the per-IP request rate; zero means DefaultRateLimit.
	RateLimit float64

	// Burst is the per-IP burst size; zero means DefaultBurst.
	Burst int

	// Done stops background cleanup when closed. Nil disables cleanup.
	Done <-chan struct{}
}

// SetupRouter creates the Gin engine with all routes and middleware.
//
// Health and metrics endpoints are public. Everything under /apis/admin/v1
// and /api/v1 requires the admin bearer token.
func SetupRouter(config *RouterConfig) *gin.Engine {
	metrics.MustInit()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger(config.Logger))

	if len(config.AllowOrigins) > 0 {
		router.Use(middleware.CORS(config.AllowOrigins))
	}

	rps, burst := config.RateLimit, config.Burst
	if rps == 0 {
		rps = DefaultRateLimit
	}
	if burst == 0 {
		burst = DefaultBurst
	}
	limiter := middleware.NewRateLimiter(rps, burst, 5*time.Minute)
	if config.Done != nil {
		go limiter.RunCleanup(time.Minute, config.Done)
	}
	router.Use(middleware.RateLimitByIP(limiter))

	clusterService := service.NewClusterService(config.DB, config.Logger)
	userService := service.NewUserService(config.DB, config.Logger)
	presetService := service.NewPresetService(config.DB, config.Logger)

	clusterHandler := handlers.NewClusterHandler(clusterService)
	userHandler := handlers.NewUserHandler(userService)
	presetHandler := handlers.NewPresetHandler(presetService)
	healthHandler := handlers.NewHealthHandler(config.DB, config.InstanceID)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Liveness)
		health.GET("/ready", healthHandler.Readiness)
	}

	auth := middleware.RequireAdminToken(config.Verifier)

	admin := router.Group("/apis/admin/v1", auth)
	{
		admin.GET("/clusters", clusterHandler.ListClusters)
		admin.POST("/clusters", clusterHandler.CreateCluster)
		admin.GET("/clusters/:cluster", clusterHandler.GetCluster)

		admin.GET("/clusters/:cluster/users", userHandler.ListUsers)
		admin.POST("/clusters/:cluster/users", userHandler.AddUser)
		admin.GET("/clusters/:cluster/users/:user", userHandler.GetUser)
		admin.DELETE("/clusters/:cluster/users/:user", userHandler.RemoveUser)
		admin.PUT("/clusters/:cluster/users/:user/quota", userHandler.SetQuota)
		admin.PATCH("/clusters/:cluster/users/:user/quota", userHandler.AddQuota)
	}

	v1 := router.Group("/api/v1", auth)
	{
		v1.PUT("/clusters/:cluster/cloud_provider", clusterHandler.SetCloudProvider)
		v1.GET("/clusters/:cluster/resource_presets", presetHandler.ListPresets)
		v1.PUT("/clusters/:cluster/resource_presets", presetHandler.ReplacePresets)
		v1.GET("/cloud_providers/:type", clusterHandler.GetCloudProviderOptions)
	}

	return router
}

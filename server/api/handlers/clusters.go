package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/neuromation/neuro-admin/models"
	"github.com/neuromation/neuro-admin/pkg/clusterconfig"
	"github.com/neuromation/neuro-admin/server/internal/service"
)

// ClusterHandler handles cluster and cloud provider endpoints.
type ClusterHandler struct {
	service *service.ClusterService
}

// NewClusterHandler creates a new ClusterHandler.
func NewClusterHandler(service *service.ClusterService) *ClusterHandler {
	return &ClusterHandler{service: service}
}

// ListClusters handles GET /apis/admin/v1/clusters.
func (h *ClusterHandler) ListClusters(c *gin.Context) {
	clusters, err := h.service.ListClusters(c.Request.Context())
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, clusters)
}

// GetCluster handles GET /apis/admin/v1/clusters/:cluster.
func (h *ClusterHandler) GetCluster(c *gin.Context) {
	cluster, err := h.service.GetCluster(c.Request.Context(), c.Param("cluster"))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, cluster)
}

// CreateCluster handles POST /apis/admin/v1/clusters.
func (h *ClusterHandler) CreateCluster(c *gin.Context) {
	var req models.ClusterCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	cluster, err := h.service.CreateCluster(c.Request.Context(), &req)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, cluster)
}

// SetCloudProvider handles PUT /api/v1/clusters/:cluster/cloud_provider.
//
// The optional start_deployment query flag marks the cluster deployed.
func (h *ClusterHandler) SetCloudProvider(c *gin.Context) {
	start, err := strconv.ParseBool(c.DefaultQuery("start_deployment", "false"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "start_deployment must be a boolean")
		return
	}

	var cfg clusterconfig.Config
	if !bindJSON(c, &cfg) {
		return
	}

	name := c.Param("cluster")
	if err := h.service.SetCloudProvider(c.Request.Context(), name, &cfg, start); err != nil {
		mapErrorToResponse(c, err)
		return
	}

	cluster, err := h.service.GetCluster(c.Request.Context(), name)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, cluster)
}

// GetCloudProviderOptions handles GET /api/v1/cloud_providers/:type.
func (h *ClusterHandler) GetCloudProviderOptions(c *gin.Context) {
	t, err := models.ParseCloudProviderType(c.Param("type"))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	opts, err := clusterconfig.Options(t)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

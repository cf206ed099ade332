package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neuromation/neuro-admin/models"
	"github.com/neuromation/neuro-admin/server/internal/service"
)

// UserHandler handles cluster membership and quota endpoints.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// ListUsers handles GET /apis/admin/v1/clusters/:cluster/users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context(), c.Param("cluster"))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /apis/admin/v1/clusters/:cluster/users/:user.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("cluster"), c.Param("user"))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// AddUser handles POST /apis/admin/v1/clusters/:cluster/users.
func (h *UserHandler) AddUser(c *gin.Context) {
	var req models.ClusterUserAddRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.AddUser(c.Request.Context(), c.Param("cluster"), &req)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// RemoveUser handles DELETE /apis/admin/v1/clusters/:cluster/users/:user.
func (h *UserHandler) RemoveUser(c *gin.Context) {
	if err := h.service.RemoveUser(c.Request.Context(), c.Param("cluster"), c.Param("user")); err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetQuota handles PUT /apis/admin/v1/clusters/:cluster/users/:user/quota.
func (h *UserHandler) SetQuota(c *gin.Context) {
	var quota models.Quota
	if !bindJSON(c, &quota) {
		return
	}

	user, err := h.service.SetQuota(c.Request.Context(), c.Param("cluster"), c.Param("user"), quota)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// AddQuota handles PATCH /apis/admin/v1/clusters/:cluster/users/:user/quota.
func (h *UserHandler) AddQuota(c *gin.Context) {
	var req models.QuotaAddRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.AddQuota(c.Request.Context(), c.Param("cluster"), c.Param("user"), req)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neuromation/neuro-admin/models"
	"github.com/neuromation/neuro-admin/server/internal/service"
)

// PresetHandler handles resource preset endpoints.
type PresetHandler struct {
	service *service.PresetService
}

// NewPresetHandler creates a new PresetHandler.
func NewPresetHandler(service *service.PresetService) *PresetHandler {
	return &PresetHandler{service: service}
}

// ListPresets handles GET /api/v1/clusters/:cluster/resource_presets.
func (h *PresetHandler) ListPresets(c *gin.Context) {
	presets, err := h.service.ListPresets(c.Request.Context(), c.Param("cluster"))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, presets)
}

// ReplacePresets handles PUT /api/v1/clusters/:cluster/resource_presets.
func (h *PresetHandler) ReplacePresets(c *gin.Context) {
	var presets []models.ResourcePreset
	if !bindJSON(c, &presets) {
		return
	}
	if presets == nil {
		presets = []models.ResourcePreset{}
	}

	if err := h.service.ReplacePresets(c.Request.Context(), c.Param("cluster"), presets); err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

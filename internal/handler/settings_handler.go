package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cuentix/inventory_api/internal/service"
	"github.com/cuentix/inventory_api/internal/utils"
)

// SettingsHandler serves public console settings.
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetPublic handles GET /v1/settings/public
func (h *SettingsHandler) GetPublic(c *gin.Context) {
	settings, err := h.settingsService.GetPublic(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Settings retrieved", settings)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cuentix/inventory_api/internal/models"
	"github.com/cuentix/inventory_api/internal/service"
	"github.com/cuentix/inventory_api/internal/utils"
)

// DashboardHandler serves the aggregate KPI panel.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats handles GET /v1/dashboard/:pool
func (h *DashboardHandler) Stats(c *gin.Context) {
	pool := models.Pool(c.Param("pool"))
	stats, err := h.dashboardService.GetStats(c.Request.Context(), pool)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Dashboard retrieved", stats)
}

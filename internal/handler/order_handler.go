package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cuentix/inventory_api/internal/service"
	"github.com/cuentix/inventory_api/internal/utils"
)

// OrderHandler handles internal sale endpoints and the daily report.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles POST /v1/orders/internal
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	order, err := h.orderService.Create(c.GetString("principal"), c.GetInt("user_id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 201, "Order recorded", order)
}

// Search handles GET /v1/orders/internal?from=...&to=...&reference=...
func (h *OrderHandler) Search(c *gin.Context) {
	if ref := c.Query("reference"); ref != "" {
		order, err := h.orderService.GetByReference(ref)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		utils.Success(c, 200, "Order retrieved", order)
		return
	}

	to := time.Now()
	from := to.AddDate(0, 0, -30)
	var err error
	if raw := c.Query("from"); raw != "" {
		if from, err = time.Parse("2006-01-02", raw); err != nil {
			utils.Error(c, 400, "INVALID_DATE", "Dates must be YYYY-MM-DD")
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.Error(c, 400, "INVALID_DATE", "Dates must be YYYY-MM-DD")
			return
		}
		to = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	orders, err := h.orderService.Search(from, to)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Orders retrieved", orders)
}

// DailyReport handles GET /v1/orders/internal/reports/daily?date=...
// Responds with the CSV itself.
func (h *OrderHandler) DailyReport(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.Error(c, 400, "INVALID_DATE", "Date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}
	data, _, err := h.orderService.DailyReportCSV(day)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	filename := fmt.Sprintf("ventas-%s.csv", day.Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(200, "text/csv", data)
}

// UploadDailyReport handles POST /v1/orders/internal/reports/daily
func (h *OrderHandler) UploadDailyReport(c *gin.Context) {
	var req struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	day := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			utils.Error(c, 400, "INVALID_DATE", "Date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}
	url, count, err := h.orderService.UploadDailyReport(c.Request.Context(), day)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Report uploaded", gin.H{
		"url":    url,
		"orders": count,
	})
}

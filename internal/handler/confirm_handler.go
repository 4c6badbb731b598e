package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cuentix/inventory_api/internal/confirm"
	"github.com/cuentix/inventory_api/internal/utils"
)

// ConfirmHandler exposes the confirmation gate: consequential operations are
// staged by their own endpoints and resolved here.
type ConfirmHandler struct {
	gate *confirm.Gate
}

// NewConfirmHandler constructs a ConfirmHandler.
func NewConfirmHandler(gate *confirm.Gate) *ConfirmHandler {
	return &ConfirmHandler{gate: gate}
}

// Pending handles GET /v1/confirmations/pending
func (h *ConfirmHandler) Pending(c *gin.Context) {
	title, message, ok := h.gate.Pending(c.GetString("principal"))
	if !ok {
		utils.Success(c, 200, "Nothing pending", gin.H{"pending": false})
		return
	}
	utils.Success(c, 200, "Pending action", gin.H{
		"pending": true,
		"title":   title,
		"message": message,
	})
}

// Confirm handles POST /v1/confirmations/confirm
func (h *ConfirmHandler) Confirm(c *gin.Context) {
	if err := h.gate.Confirm(c.Request.Context(), c.GetString("principal")); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Action executed", nil)
}

// Cancel handles POST /v1/confirmations/cancel
func (h *ConfirmHandler) Cancel(c *gin.Context) {
	if err := h.gate.Cancel(c.GetString("principal")); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Action cancelled", nil)
}

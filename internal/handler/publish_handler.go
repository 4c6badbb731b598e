package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cuentix/inventory_api/internal/models"
	"github.com/cuentix/inventory_api/internal/publish"
	"github.com/cuentix/inventory_api/internal/service"
	"github.com/cuentix/inventory_api/internal/utils"
)

// PublishHandler handles the publish wizard HTTP endpoints.
type PublishHandler struct {
	publishService *service.PublishService
}

// NewPublishHandler constructs a PublishHandler.
func NewPublishHandler(publishService *service.PublishService) *PublishHandler {
	return &PublishHandler{publishService: publishService}
}

// Open handles POST /v1/publish/drafts
func (h *PublishHandler) Open(c *gin.Context) {
	var req struct {
		Pool      models.Pool `json:"pool" binding:"required"`
		AccountID int         `json:"accountId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	draft, err := h.publishService.Open(req.Pool, req.AccountID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 201, "Draft opened", draft)
}

// Get handles GET /v1/publish/drafts/:id
func (h *PublishHandler) Get(c *gin.Context) {
	draft, err := h.publishService.Get(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Draft retrieved", draftView(draft))
}

// Update handles PATCH /v1/publish/drafts/:id
func (h *PublishHandler) Update(c *gin.Context) {
	var req service.DraftUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	draft, err := h.publishService.Update(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Draft updated", draftView(draft))
}

// Advance handles POST /v1/publish/drafts/:id/advance
func (h *PublishHandler) Advance(c *gin.Context) {
	draft, err := h.publishService.Advance(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Draft advanced", draftView(draft))
}

// Back handles POST /v1/publish/drafts/:id/back
func (h *PublishHandler) Back(c *gin.Context) {
	draft, err := h.publishService.Back(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Draft returned to configuration", draftView(draft))
}

// Confirm handles POST /v1/publish/drafts/:id/confirm
func (h *PublishHandler) Confirm(c *gin.Context) {
	listings, err := h.publishService.Confirm(c.Request.Context(), c.GetString("principal"), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 201, "Stock published", listings)
}

// Discard handles DELETE /v1/publish/drafts/:id
func (h *PublishHandler) Discard(c *gin.Context) {
	h.publishService.Discard(c.Param("id"))
	utils.Success(c, 200, "Draft discarded", nil)
}

// draftView wraps a draft with its computed totals so the console renders
// the summary without reimplementing the math.
func draftView(draft *publish.Draft) gin.H {
	view := gin.H{
		"draft":      draft,
		"total":      draft.Total(),
		"canProceed": draft.CanProceed(),
	}
	if margin, ok := draft.Margin(); ok {
		view["margin"] = margin
	}
	return view
}

package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cuentix/inventory_api/internal/service"
	"github.com/cuentix/inventory_api/internal/utils"
)

// CategoryHandler serves the service categories.
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List handles GET /v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Categories retrieved", categories)
}

// Get handles GET /v1/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid category ID")
		return
	}
	category, err := h.categoryService.Get(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Category retrieved", category)
}

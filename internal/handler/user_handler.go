package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cuentix/inventory_api/internal/service"
	"github.com/cuentix/inventory_api/internal/utils"
)

// UserHandler handles console user administration endpoints.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func userIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid user ID")
		return 0, false
	}
	return id, true
}

// List handles GET /v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Users retrieved", users)
}

// Get handles GET /v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	user, err := h.userService.Get(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "User retrieved", user)
}

// Create handles POST /v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	user, err := h.userService.Create(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 201, "User created", user)
}

// Update handles PUT /v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	user, err := h.userService.Update(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "User updated", user)
}

// ChangePassword handles PUT /v1/users/:id/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Password must be at least 8 characters")
		return
	}
	if err := h.userService.ChangePassword(id, req.Password); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Password updated", nil)
}

// Delete handles DELETE /v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if err := h.userService.Delete(id); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "User deleted", nil)
}

// Recharge handles POST /v1/users/:id/recharge
func (h *UserHandler) Recharge(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Amount int `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	balance, err := h.userService.Recharge(c.GetString("principal"), id, req.Amount)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Balance recharged", gin.H{"balance": balance})
}

// GrantPermission handles POST /v1/users/:id/permissions
func (h *UserHandler) GrantPermission(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Permission string `json:"permission" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	user, err := h.userService.GrantPermission(id, req.Permission)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Permission granted", user)
}

// RevokePermission handles DELETE /v1/users/:id/permissions/:permission
func (h *UserHandler) RevokePermission(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	user, err := h.userService.RevokePermission(id, c.Param("permission"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Permission revoked", user)
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cuentix/inventory_api/internal/middleware"
	"github.com/cuentix/inventory_api/internal/service"
	"github.com/cuentix/inventory_api/internal/utils"
)

type AuthHandler struct {
	authService *service.AuthService
	rateLimiter *middleware.InvalidAuthRateLimiter
}

func NewAuthHandler(authService *service.AuthService, rateLimiter *middleware.InvalidAuthRateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, rateLimiter: rateLimiter}
}

// Login handles POST /v1/auth/login. Failed attempts count against the
// per-IP invalid-auth budget shared with the JWT middleware.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) {
			h.rateLimiter.Record(c.ClientIP())
		}
		handleServiceError(c, err)
		return
	}
	h.rateLimiter.Reset(c.ClientIP())

	utils.Success(c, 200, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

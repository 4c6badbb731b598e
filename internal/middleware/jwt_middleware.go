package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cuentix/inventory_api/internal/utils"
)

// JWTMiddleware guards console endpoints with bearer-token sessions.
type JWTMiddleware struct {
	rateLimiter *InvalidAuthRateLimiter
}

// NewJWTMiddleware builds the guard around a shared limiter so invalid
// bearer tokens and failed logins count against the same per-IP budget.
func NewJWTMiddleware(rateLimiter *InvalidAuthRateLimiter) *JWTMiddleware {
	return &JWTMiddleware{rateLimiter: rateLimiter}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.rateLimiter.Allow(c.ClientIP()) {
			utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Too many invalid attempts, try again later")
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.reject(c, "UNAUTHORIZED", "Missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.reject(c, "UNAUTHORIZED", "Invalid authorization header")
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			m.reject(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		m.rateLimiter.Reset(c.ClientIP())
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		// Principal string keys per-user state: notifications, staged
		// confirmations.
		c.Set("principal", strconv.Itoa(claims.UserID))
		c.Next()
	}
}

func (m *JWTMiddleware) reject(c *gin.Context, code, message string) {
	m.rateLimiter.Record(c.ClientIP())
	utils.Error(c, 401, code, message)
	c.Abort()
}

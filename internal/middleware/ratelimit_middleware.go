package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cuentix/inventory_api/internal/utils"
)

// Rate limiter ONLY for invalid auth attempts
type InvalidAuthRateLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

func NewInvalidAuthRateLimiter() *InvalidAuthRateLimiter {
	rl := &InvalidAuthRateLimiter{
		attempts: make(map[string]*attemptInfo),
	}
	go rl.cleanup()
	return rl
}

// Allow reports whether the IP is still under the invalid-attempt limit.
// Limit: 5 invalid attempts per minute.
func (r *InvalidAuthRateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, exists := r.attempts[ip]
	if !exists {
		return true
	}
	if time.Since(info.firstAt) > time.Minute {
		delete(r.attempts, ip)
		return true
	}
	return info.count < 5
}

// Record counts one invalid attempt for the IP.
func (r *InvalidAuthRateLimiter) Record(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	info, exists := r.attempts[ip]
	if !exists || now.Sub(info.firstAt) > time.Minute {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return
	}
	info.count++
}

// Reset clears the counter after a successful authentication.
func (r *InvalidAuthRateLimiter) Reset(ip string) {
	r.mu.Lock()
	delete(r.attempts, ip)
	r.mu.Unlock()
}

// LoginRateLimit rejects login attempts from IPs over the invalid-attempt
// limit before the password is even checked. The login handler records each
// failed attempt.
func LoginRateLimit(rl *InvalidAuthRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Too many invalid attempts, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (r *InvalidAuthRateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for ip, info := range r.attempts {
			if now.Sub(info.firstAt) > time.Minute {
				delete(r.attempts, ip)
			}
		}
		r.mu.Unlock()
	}
}

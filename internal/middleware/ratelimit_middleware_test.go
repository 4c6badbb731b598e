package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestInvalidAuthRateLimiter_FiveAttemptsPerMinute(t *testing.T) {
	rl := NewInvalidAuthRateLimiter()
	ip := "10.0.0.1"

	for i := 0; i < 5; i++ {
		if !rl.Allow(ip) {
			t.Fatalf("attempt %d should still be allowed", i+1)
		}
		rl.Record(ip)
	}
	if rl.Allow(ip) {
		t.Fatal("sixth attempt within the window should be blocked")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("other IPs must not be affected")
	}

	rl.Reset(ip)
	if !rl.Allow(ip) {
		t.Fatal("reset should clear the counter")
	}
}

func TestLoginRateLimit_BlocksRepeatedFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewInvalidAuthRateLimiter()

	// Stand-in login endpoint that always fails and records the attempt,
	// the way the real handler does on a bad password.
	router := gin.New()
	router.POST("/login", LoginRateLimit(rl), func(c *gin.Context) {
		rl.Record(c.ClientIP())
		c.Status(http.StatusUnauthorized)
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after five failures, got %d", w.Code)
	}
}

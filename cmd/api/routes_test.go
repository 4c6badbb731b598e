package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/cuentix/inventory_api/internal/handler"
	"github.com/cuentix/inventory_api/internal/middleware"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	limiter := middleware.NewInvalidAuthRateLimiter()
	handlers := &Handlers{
		Health:       handler.NewHealthHandler(nil, nil),
		Auth:         handler.NewAuthHandler(nil, limiter),
		Account:      handler.NewAccountHandler(nil, nil),
		Publish:      handler.NewPublishHandler(nil),
		Confirm:      handler.NewConfirmHandler(nil),
		Notification: handler.NewNotificationHandler(nil),
		SSE:          handler.NewSSEHandler(nil),
		Category:     handler.NewCategoryHandler(nil),
		Dashboard:    handler.NewDashboardHandler(nil),
		User:         handler.NewUserHandler(nil),
		Order:        handler.NewOrderHandler(nil),
		Settings:     handler.NewSettingsHandler(nil),
	}
	router := gin.New()
	setupRoutes(router, handlers, middleware.NewJWTMiddleware(limiter), limiter)
	return router
}

// An unauthenticated request that reaches the JWT guard gets a 401; a path
// gin never matched gets a 404. That difference is enough to prove every
// account route resolves for both pools, including the admin bulk import
// that a static /admin sibling used to shadow.
func TestRoutes_AccountPathsResolveForBothPools(t *testing.T) {
	router := newTestRouter()

	paths := []string{
		"/v1/accounts/admin/import",
		"/v1/accounts/support/import",
		"/v1/accounts/admin/7/support",
		"/v1/accounts/admin/7/report",
	}
	for _, path := range paths {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("POST %s: expected 401, got %d", path, w.Code)
		}
	}
}

func TestRoutes_UnknownAccountActionIs404(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/accounts/admin/7/archive", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unregistered action, got %d", w.Code)
	}
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cuentix/inventory_api/internal/cache"
	"github.com/cuentix/inventory_api/internal/config"
	"github.com/cuentix/inventory_api/internal/confirm"
	"github.com/cuentix/inventory_api/internal/crypto"
	"github.com/cuentix/inventory_api/internal/database"
	"github.com/cuentix/inventory_api/internal/handler"
	"github.com/cuentix/inventory_api/internal/middleware"
	"github.com/cuentix/inventory_api/internal/notify"
	"github.com/cuentix/inventory_api/internal/publish"
	"github.com/cuentix/inventory_api/internal/repository"
	"github.com/cuentix/inventory_api/internal/service"
	"github.com/cuentix/inventory_api/internal/sse"
	"github.com/cuentix/inventory_api/internal/utils"
	"github.com/cuentix/inventory_api/internal/worker"
	"github.com/cuentix/inventory_api/pkg/storefront"
)

// main is the application entrypoint for the inventory console API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting inventory api")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize caches
	snapshotCache := cache.NewSnapshotCache(redisClient)
	settingsCache := cache.NewSettingsCache(redisClient)

	// 4. Credential cipher
	credCipher, err := crypto.NewCredentialCipher(cfg.CredentialKey)
	if err != nil {
		log.Error().Err(err).Msg("invalid credential key")
		fmt.Fprintf(os.Stderr, "invalid credential key: %v\n", err)
		os.Exit(1)
	}

	// 5. Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	stockRepo := repository.NewStockRepository(db)
	callbackRepo := repository.NewCallbackRepository(db)
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// 6. Notification queue and live stream
	queue := notify.NewQueue(0)
	hub := sse.NewHub()
	notifier := sse.NewNotifier(queue, hub)

	// 7. Wizard registry and confirmation gate
	draftRegistry := publish.NewRegistry(cfg.Worker.DraftTTL)
	gate := confirm.NewGate(cfg.Worker.ConfirmTTL)

	// 8. Storefront client
	storefrontClient := storefront.NewClient(cfg.Storefront.CallbackURL, cfg.Storefront.CallbackSecret)

	// 9. Initialize services
	dashboardSvc := service.NewDashboardService(accountRepo, redisClient)
	accountSvc := service.NewAccountService(accountRepo, categoryRepo, stockRepo, callbackRepo, snapshotCache, dashboardSvc, credCipher, notifier)
	publishSvc := service.NewPublishService(draftRegistry, accountRepo, accountSvc)
	authSvc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo, notifier)
	categorySvc := service.NewCategoryService(categoryRepo)
	settingsSvc := service.NewSettingsService(settingsRepo, settingsCache)
	reportSvc := service.NewReportService(&cfg.Reports)
	orderSvc := service.NewOrderService(orderRepo, stockRepo, reportSvc, notifier)
	callbackSvc := service.NewCallbackService(callbackRepo, storefrontClient, cfg.Storefront.CallbackURL != "")

	// 10. Initialize handlers. Failed logins and invalid bearer tokens share
	// one per-IP rate limiter.
	authLimiter := middleware.NewInvalidAuthRateLimiter()
	handlers := &Handlers{
		Health:       handler.NewHealthHandler(db, redisClient),
		Auth:         handler.NewAuthHandler(authSvc, authLimiter),
		Account:      handler.NewAccountHandler(accountSvc, gate),
		Publish:      handler.NewPublishHandler(publishSvc),
		Confirm:      handler.NewConfirmHandler(gate),
		Notification: handler.NewNotificationHandler(queue),
		SSE:          handler.NewSSEHandler(hub),
		Category:     handler.NewCategoryHandler(categorySvc),
		Dashboard:    handler.NewDashboardHandler(dashboardSvc),
		User:         handler.NewUserHandler(userSvc),
		Order:        handler.NewOrderHandler(orderSvc),
		Settings:     handler.NewSettingsHandler(settingsSvc),
	}

	// 11. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(authLimiter)

	// 12. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw, authLimiter)

	// 13. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 14. Start workers
	go worker.NewExpiryWorker(dashboardSvc, cfg.Worker.ExpiryInterval).Start(ctx)
	go worker.NewSweepWorker(draftRegistry, gate, cfg.Worker.SweepInterval).Start(ctx)
	go worker.NewCallbackWorker(callbackSvc, cfg.Worker.CallbackInterval).Start(ctx)

	// 15. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 16. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 17. Cancel context to stop workers
	cancel()

	// 18. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Account      *handler.AccountHandler
	Publish      *handler.PublishHandler
	Confirm      *handler.ConfirmHandler
	Notification *handler.NotificationHandler
	SSE          *handler.SSEHandler
	Category     *handler.CategoryHandler
	Dashboard    *handler.DashboardHandler
	User         *handler.UserHandler
	Order        *handler.OrderHandler
	Settings     *handler.SettingsHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware, authLimiter *middleware.InvalidAuthRateLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)
	router.GET("/v1/settings/public", handlers.Settings.GetPublic)
	router.POST("/v1/auth/login", middleware.LoginRateLimit(authLimiter), handlers.Auth.Login)

	// Live notification stream authenticates via query token
	router.GET("/v1/events", handlers.SSE.Stream)

	v1 := router.Group("/v1")
	v1.Use(jwtMiddleware.Handle())
	{
		// Inventory
		v1.GET("/accounts/:pool/categories/:categoryId", handlers.Account.List)
		v1.POST("/accounts/:pool", handlers.Account.Create)
		v1.POST("/accounts/:pool/import", handlers.Account.Import)
		v1.GET("/accounts/:pool/:id", handlers.Account.Get)
		v1.PUT("/accounts/:pool/:id", handlers.Account.Update)
		v1.DELETE("/accounts/:pool/:id", handlers.Account.Delete)
		v1.POST("/accounts/:pool/:id/report", handlers.Account.Report)
		v1.POST("/accounts/:pool/:id/reveal", handlers.Account.Reveal)
		v1.GET("/accounts/:pool/:id/listings", handlers.Account.Listings)
		v1.POST("/accounts/:pool/:id/support", handlers.Account.SendToSupport)

		// Publish wizard
		v1.POST("/publish/drafts", handlers.Publish.Open)
		v1.GET("/publish/drafts/:id", handlers.Publish.Get)
		v1.PATCH("/publish/drafts/:id", handlers.Publish.Update)
		v1.POST("/publish/drafts/:id/advance", handlers.Publish.Advance)
		v1.POST("/publish/drafts/:id/back", handlers.Publish.Back)
		v1.POST("/publish/drafts/:id/confirm", handlers.Publish.Confirm)
		v1.DELETE("/publish/drafts/:id", handlers.Publish.Discard)

		// Confirmation gate
		v1.GET("/confirmations/pending", handlers.Confirm.Pending)
		v1.POST("/confirmations/confirm", handlers.Confirm.Confirm)
		v1.POST("/confirmations/cancel", handlers.Confirm.Cancel)

		// Notifications
		v1.GET("/notifications", handlers.Notification.Drain)

		// Categories and dashboard
		v1.GET("/categories", handlers.Category.List)
		v1.GET("/categories/:id", handlers.Category.Get)
		v1.GET("/dashboard/:pool", handlers.Dashboard.Stats)

		// Console users
		v1.GET("/users", handlers.User.List)
		v1.POST("/users", handlers.User.Create)
		v1.GET("/users/:id", handlers.User.Get)
		v1.PUT("/users/:id", handlers.User.Update)
		v1.DELETE("/users/:id", handlers.User.Delete)
		v1.PUT("/users/:id/password", handlers.User.ChangePassword)
		v1.POST("/users/:id/recharge", handlers.User.Recharge)
		v1.POST("/users/:id/permissions", handlers.User.GrantPermission)
		v1.DELETE("/users/:id/permissions/:permission", handlers.User.RevokePermission)

		// Internal orders
		v1.POST("/orders/internal", handlers.Order.Create)
		v1.GET("/orders/internal", handlers.Order.Search)
		v1.GET("/orders/internal/reports/daily", handlers.Order.DailyReport)
		v1.POST("/orders/internal/reports/daily", handlers.Order.UploadDailyReport)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

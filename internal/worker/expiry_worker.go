package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cuentix/inventory_api/internal/models"
	"github.com/cuentix/inventory_api/internal/service"
)

// ExpiryWorker refreshes the dashboard stats for both pools on a timer so
// day-boundary bucket shifts show up without waiting for a mutation.
type ExpiryWorker struct {
	dashboardService *service.DashboardService
	interval         time.Duration
}

// NewExpiryWorker constructs an ExpiryWorker.
func NewExpiryWorker(dashboardService *service.DashboardService, interval time.Duration) *ExpiryWorker {
	return &ExpiryWorker{
		dashboardService: dashboardService,
		interval:         interval,
	}
}

// Start begins the periodic refresh loop until context is canceled.
func (w *ExpiryWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting expiry worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Expiry worker stopped")
			return
		}
	}
}

func (w *ExpiryWorker) run(ctx context.Context) {
	for _, pool := range []models.Pool{models.PoolAdmin, models.PoolSupport} {
		if _, err := w.dashboardService.Refresh(ctx, pool); err != nil {
			log.Error().Err(err).Str("pool", string(pool)).Msg("Failed to refresh dashboard stats")
		}
	}
}

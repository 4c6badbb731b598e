package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cuentix/inventory_api/internal/service"
)

// CallbackWorker drains the storefront announcement outbox on a timer.
type CallbackWorker struct {
	callbackService *service.CallbackService
	interval        time.Duration
}

// NewCallbackWorker constructs a CallbackWorker.
func NewCallbackWorker(callbackService *service.CallbackService, interval time.Duration) *CallbackWorker {
	return &CallbackWorker{
		callbackService: callbackService,
		interval:        interval,
	}
}

// Start begins the periodic delivery loop until context is canceled.
func (w *CallbackWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting callback worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.callbackService.DeliverPending(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to deliver pending callbacks")
			}
		case <-ctx.Done():
			log.Info().Msg("Callback worker stopped")
			return
		}
	}
}

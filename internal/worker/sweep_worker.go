package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cuentix/inventory_api/internal/confirm"
	"github.com/cuentix/inventory_api/internal/publish"
)

// SweepWorker evicts abandoned publish drafts and stale staged
// confirmations on a timer.
type SweepWorker struct {
	registry *publish.Registry
	gate     *confirm.Gate
	interval time.Duration
}

// NewSweepWorker constructs a SweepWorker.
func NewSweepWorker(registry *publish.Registry, gate *confirm.Gate, interval time.Duration) *SweepWorker {
	return &SweepWorker{
		registry: registry,
		gate:     gate,
		interval: interval,
	}
}

// Start begins the periodic sweep loop until context is canceled.
func (w *SweepWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting sweep worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if drafts := w.registry.Sweep(); drafts > 0 {
				log.Info().Int("count", drafts).Msg("Swept expired publish drafts")
			}
			if staged := w.gate.Sweep(); staged > 0 {
				log.Info().Int("count", staged).Msg("Swept stale staged confirmations")
			}
		case <-ctx.Done():
			log.Info().Msg("Sweep worker stopped")
			return
		}
	}
}

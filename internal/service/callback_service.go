package service

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cuentix/inventory_api/internal/repository"
	"github.com/cuentix/inventory_api/pkg/storefront"
)

// CallbackService delivers queued storefront announcements from the outbox
// and schedules retries for failed attempts.
type CallbackService struct {
	callbackRepo *repository.CallbackRepository
	client       *storefront.Client
	enabled      bool
}

// NewCallbackService constructs a CallbackService. With an empty callback
// URL delivery is disabled and outbox rows simply accumulate.
func NewCallbackService(callbackRepo *repository.CallbackRepository, client *storefront.Client, enabled bool) *CallbackService {
	return &CallbackService{
		callbackRepo: callbackRepo,
		client:       client,
		enabled:      enabled,
	}
}

// nextRetryTime returns the next retry time based on attempt number.
// Retry intervals: 30s, 1m, 5m, 30m, 2h.
func (s *CallbackService) nextRetryTime(attempt int) time.Time {
	intervals := []time.Duration{
		30 * time.Second,
		1 * time.Minute,
		5 * time.Minute,
		30 * time.Minute,
		2 * time.Hour,
	}
	if attempt >= len(intervals) {
		return time.Time{}
	}
	return time.Now().Add(intervals[attempt])
}

// DeliverPending sends every due outbox row and records the outcome of each
// attempt.
func (s *CallbackService) DeliverPending(ctx context.Context) error {
	if !s.enabled {
		return nil
	}
	callbacks, err := s.callbackRepo.GetPending()
	if err != nil {
		return err
	}
	for i := range callbacks {
		cb := &callbacks[i]

		status, body, err := s.client.Deliver(ctx, cb.Event, cb.Payload)
		if err != nil {
			log.Error().Err(err).Int("callback_id", cb.ID).Msg("Storefront delivery failed")
		}

		cb.Attempt++
		if status > 0 {
			cb.HTTPStatus = &status
		}
		if body != "" {
			cb.ResponseBody = &body
		}
		cb.IsDelivered = err == nil && status == http.StatusOK
		if cb.IsDelivered {
			cb.NextRetryAt = nil
			log.Info().Int("callback_id", cb.ID).Str("event", cb.Event).Msg("Storefront callback delivered")
		} else if next := s.nextRetryTime(cb.Attempt); !next.IsZero() {
			cb.NextRetryAt = &next
		} else {
			cb.NextRetryAt = nil
			log.Warn().Int("callback_id", cb.ID).Msg("Storefront callback exhausted retries")
		}

		if err := s.callbackRepo.Update(cb); err != nil {
			log.Error().Err(err).Int("callback_id", cb.ID).Msg("Failed to update callback outbox")
		}
	}
	return nil
}

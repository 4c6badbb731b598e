package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/cuentix/inventory_api/internal/models"
)

// CallbackRepository provides access to the storefront callback outbox.
type CallbackRepository struct {
	db *sqlx.DB
}

// NewCallbackRepository creates a new CallbackRepository.
func NewCallbackRepository(db *sqlx.DB) *CallbackRepository {
	return &CallbackRepository{db: db}
}

// Create inserts a new outbox row for a published stock batch.
func (r *CallbackRepository) Create(cb *models.StockCallback) error {
	const q = `
		INSERT INTO stock_callbacks (
			source_id, source_type, event, payload, attempt, http_status,
			response_body, is_delivered, created_at, next_retry_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),$9)
		RETURNING id, created_at`
	return r.db.QueryRowx(q,
		cb.SourceID,
		cb.SourceType,
		cb.Event,
		cb.Payload,
		cb.Attempt,
		cb.HTTPStatus,
		cb.ResponseBody,
		cb.IsDelivered,
		cb.NextRetryAt,
	).Scan(&cb.ID, &cb.CreatedAt)
}

// Update records the result of a delivery attempt.
func (r *CallbackRepository) Update(cb *models.StockCallback) error {
	const q = `
		UPDATE stock_callbacks SET
			attempt = $2,
			http_status = $3,
			response_body = $4,
			is_delivered = $5,
			next_retry_at = $6
		WHERE id = $1`
	_, err := r.db.Exec(q,
		cb.ID,
		cb.Attempt,
		cb.HTTPStatus,
		cb.ResponseBody,
		cb.IsDelivered,
		cb.NextRetryAt,
	)
	return err
}

// GetPending returns undelivered callbacks whose retry time has arrived.
// Uses SKIP LOCKED to avoid duplicate processing by concurrent workers.
func (r *CallbackRepository) GetPending() ([]models.StockCallback, error) {
	const q = `
		SELECT * FROM stock_callbacks
		WHERE is_delivered = false
		  AND next_retry_at <= NOW()
		  AND attempt < 5
		ORDER BY next_retry_at ASC
		FOR UPDATE SKIP LOCKED`
	var callbacks []models.StockCallback
	if err := r.db.Select(&callbacks, q); err != nil {
		return nil, err
	}
	return callbacks, nil
}

// MarkDelivered marks a callback as delivered.
func (r *CallbackRepository) MarkDelivered(id int) error {
	_, err := r.db.Exec(`UPDATE stock_callbacks SET is_delivered = true WHERE id = $1`, id)
	return err
}

package models

import (
	"encoding/json"
	"time"
)

// StockCallback stores outgoing storefront webhook attempts for published
// stock batches. Undelivered rows are retried by the callback worker.
type StockCallback struct {
	ID           int             `db:"id"`
	SourceID     int             `db:"source_id"`
	SourceType   Pool            `db:"source_type"`
	Event        string          `db:"event"`
	Payload      json.RawMessage `db:"payload"`
	Attempt      int             `db:"attempt"`
	HTTPStatus   *int            `db:"http_status"`
	ResponseBody *string         `db:"response_body"`
	IsDelivered  bool            `db:"is_delivered"`
	CreatedAt    time.Time       `db:"created_at"`
	NextRetryAt  *time.Time      `db:"next_retry_at"`
}

package models

import "time"

// PublicSetting is one store-branding key/value pair. The full set is served
// through a read-through cache; there is no per-key endpoint.
type PublicSetting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

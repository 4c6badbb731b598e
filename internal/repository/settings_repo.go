package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/cuentix/inventory_api/internal/models"
)

// SettingsRepository provides the public store-branding settings.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetAll returns every public setting.
func (r *SettingsRepository) GetAll() ([]models.PublicSetting, error) {
	const q = `SELECT key, value, updated_at FROM public_settings ORDER BY key`
	settings := []models.PublicSetting{}
	if err := r.db.Select(&settings, q); err != nil {
		return nil, err
	}
	return settings, nil
}

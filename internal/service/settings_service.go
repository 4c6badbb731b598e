package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/cuentix/inventory_api/internal/cache"
	"github.com/cuentix/inventory_api/internal/models"
	"github.com/cuentix/inventory_api/internal/repository"
)

// SettingsService serves the public console settings with a read-through
// Redis cache.
type SettingsService struct {
	settingsRepo  *repository.SettingsRepository
	settingsCache *cache.SettingsCache
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(settingsRepo *repository.SettingsRepository, settingsCache *cache.SettingsCache) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, settingsCache: settingsCache}
}

// GetPublic returns the public settings, from cache when fresh.
func (s *SettingsService) GetPublic(ctx context.Context) ([]models.PublicSetting, error) {
	settings, hit, err := s.settingsCache.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Settings cache read failed")
	}
	if hit {
		return settings, nil
	}
	settings, err = s.settingsRepo.GetAll()
	if err != nil {
		return nil, err
	}
	if err := s.settingsCache.Set(ctx, settings); err != nil {
		log.Warn().Err(err).Msg("Failed to cache settings")
	}
	return settings, nil
}

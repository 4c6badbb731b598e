package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cuentix/inventory_api/internal/models"
)

const (
	settingsKey = "settings:public"
	settingsTTL = 15 * time.Minute
)

// SettingsCache is the read-through cache in front of the public
// store-branding settings.
type SettingsCache struct {
	redis *RedisClient
}

// NewSettingsCache creates a new SettingsCache.
func NewSettingsCache(redis *RedisClient) *SettingsCache {
	return &SettingsCache{redis: redis}
}

// Get returns the cached settings, or ok=false on a miss.
func (c *SettingsCache) Get(ctx context.Context) ([]models.PublicSetting, bool, error) {
	raw, err := c.redis.Get(ctx, settingsKey)
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var settings []models.PublicSetting
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return settings, true, nil
}

// Set stores the settings with the cache TTL.
func (c *SettingsCache) Set(ctx context.Context, settings []models.PublicSetting) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return c.redis.Set(ctx, settingsKey, string(data), settingsTTL)
}

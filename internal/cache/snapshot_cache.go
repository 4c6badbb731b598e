package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cuentix/inventory_api/internal/models"
)

// ErrStaleSnapshot is returned when a reload was superseded by a newer
// mutation before it could be stored. Callers discard the reload.
var ErrStaleSnapshot = errors.New("snapshot generation superseded")

// snapshotTTL bounds how long a category snapshot may serve reads without a
// mutation forcing a reload.
const snapshotTTL = 10 * time.Minute

// SnapshotCache holds the full per-category account snapshot for each pool.
// Every mutation invalidates and bumps a generation counter; a reload tagged
// with a stale generation is never stored, so out-of-order async reloads
// cannot overwrite fresher data.
type SnapshotCache struct {
	redis *RedisClient
}

// NewSnapshotCache creates a new SnapshotCache.
func NewSnapshotCache(redis *RedisClient) *SnapshotCache {
	return &SnapshotCache{redis: redis}
}

func (c *SnapshotCache) key(pool models.Pool, categoryID int) string {
	return fmt.Sprintf("snapshot:%s:%d", pool, categoryID)
}

func (c *SnapshotCache) genKey(pool models.Pool, categoryID int) string {
	return fmt.Sprintf("snapshot:gen:%s:%d", pool, categoryID)
}

// Invalidate drops the cached snapshot and bumps the generation counter,
// returning the new generation for the follow-up reload to carry.
func (c *SnapshotCache) Invalidate(ctx context.Context, pool models.Pool, categoryID int) (int64, error) {
	if err := c.redis.Delete(ctx, c.key(pool, categoryID)); err != nil {
		return 0, err
	}
	return c.redis.Incr(ctx, c.genKey(pool, categoryID))
}

// Generation returns the current generation counter for a category.
func (c *SnapshotCache) Generation(ctx context.Context, pool models.Pool, categoryID int) (int64, error) {
	raw, err := c.redis.Get(ctx, c.genKey(pool, categoryID))
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

// Store saves a freshly loaded snapshot, but only when gen still matches
// the current generation. A mismatch means a newer mutation landed while
// the reload was in flight; the stale result is discarded.
func (c *SnapshotCache) Store(ctx context.Context, pool models.Pool, categoryID int, gen int64, accounts []models.Account) error {
	current, err := c.Generation(ctx, pool, categoryID)
	if err != nil {
		return err
	}
	if current != gen {
		return ErrStaleSnapshot
	}
	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return c.redis.Set(ctx, c.key(pool, categoryID), string(data), snapshotTTL)
}

// Get returns the cached snapshot, or ok=false on a miss.
func (c *SnapshotCache) Get(ctx context.Context, pool models.Pool, categoryID int) ([]models.Account, bool, error) {
	raw, err := c.redis.Get(ctx, c.key(pool, categoryID))
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var accounts []models.Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return accounts, true, nil
}

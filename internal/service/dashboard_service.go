package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/cuentix/inventory_api/internal/cache"
	"github.com/cuentix/inventory_api/internal/models"
	"github.com/cuentix/inventory_api/internal/repository"
	"github.com/cuentix/inventory_api/internal/utils"
)

// statsTTL bounds dashboard staleness between worker refreshes.
const statsTTL = 5 * time.Minute

// DashboardService computes and caches the aggregate KPI panel per pool.
type DashboardService struct {
	accountRepo *repository.AccountRepository
	redis       *cache.RedisClient
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(accountRepo *repository.AccountRepository, redis *cache.RedisClient) *DashboardService {
	return &DashboardService{accountRepo: accountRepo, redis: redis}
}

func statsKey(pool models.Pool) string {
	return fmt.Sprintf("dashboard:stats:%s", pool)
}

// GetStats returns the cached stats panel for a pool, computing it on a
// miss.
func (s *DashboardService) GetStats(ctx context.Context, pool models.Pool) (*repository.DashboardStats, error) {
	if !pool.Valid() {
		return nil, utils.ErrInvalidPool
	}
	raw, err := s.redis.Get(ctx, statsKey(pool))
	if err == nil {
		var stats repository.DashboardStats
		if err := json.Unmarshal([]byte(raw), &stats); err == nil {
			return &stats, nil
		}
	} else if err != redis.Nil {
		log.Warn().Err(err).Msg("Dashboard cache read failed")
	}
	return s.Refresh(ctx, pool)
}

// Invalidate drops the cached stats panel for a pool so the next read
// recomputes it. Every account mutation goes through here.
func (s *DashboardService) Invalidate(ctx context.Context, pool models.Pool) {
	if err := s.redis.Delete(ctx, statsKey(pool)); err != nil {
		log.Warn().Err(err).Str("pool", string(pool)).Msg("Failed to invalidate dashboard stats")
	}
}

// Refresh recomputes the stats panel and stores it. The expiry worker calls
// this on a timer so the day-boundary bucket shifts surface without any
// mutation.
func (s *DashboardService) Refresh(ctx context.Context, pool models.Pool) (*repository.DashboardStats, error) {
	stats, err := s.accountRepo.GetDashboardStats(pool)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return stats, nil
	}
	if err := s.redis.Set(ctx, statsKey(pool), string(data), statsTTL); err != nil {
		log.Warn().Err(err).Str("pool", string(pool)).Msg("Failed to cache dashboard stats")
	}
	return stats, nil
}

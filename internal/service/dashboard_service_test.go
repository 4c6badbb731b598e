package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/cuentix/inventory_api/internal/models"
)

func expectStatsQueries(mock sqlmock.Sqlmock, total int) {
	mock.ExpectQuery(`SELECT\s+COUNT\(\*\) AS total_accounts`).
		WillReturnRows(sqlmock.NewRows([]string{
			"total_accounts", "disponibles", "ocupadas", "caidas", "expiring_soon", "total_cost",
		}).AddRow(total, total, 0, 0, 0, total*100))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(price\), 0\) FROM stock_listings`).
		WithArgs(models.PoolAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(total * 150))
	mock.ExpectQuery(`SELECT supplier FROM admin_accounts`).
		WillReturnRows(sqlmock.NewRows([]string{"supplier"}).AddRow("ProveedorA"))
}

func TestGetStats_CachesUntilInvalidated(t *testing.T) {
	repo, mock := newTestAccountDB(t)
	_, redisClient := newTestRedis(t)
	svc := NewDashboardService(repo, redisClient)
	ctx := context.Background()

	expectStatsQueries(mock, 5)
	stats, err := svc.GetStats(ctx, models.PoolAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalAccounts != 5 || stats.ListedValue != 750 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	// Second read comes from cache; no further queries expected.
	cached, err := svc.GetStats(ctx, models.PoolAdmin)
	if err != nil {
		t.Fatalf("unexpected error on cached read: %v", err)
	}
	if cached.TotalAccounts != 5 {
		t.Fatalf("unexpected cached stats: %+v", cached)
	}

	svc.Invalidate(ctx, models.PoolAdmin)

	expectStatsQueries(mock, 4)
	fresh, err := svc.GetStats(ctx, models.PoolAdmin)
	if err != nil {
		t.Fatalf("unexpected error after invalidation: %v", err)
	}
	if fresh.TotalAccounts != 4 {
		t.Fatalf("invalidation should force a recompute, got %+v", fresh)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

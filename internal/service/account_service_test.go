package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"

	"github.com/cuentix/inventory_api/internal/cache"
	"github.com/cuentix/inventory_api/internal/config"
	"github.com/cuentix/inventory_api/internal/models"
	"github.com/cuentix/inventory_api/internal/notify"
	"github.com/cuentix/inventory_api/internal/repository"
	"github.com/cuentix/inventory_api/internal/sse"
	"github.com/cuentix/inventory_api/internal/utils"
)

func newTestAccountDB(t *testing.T) (*repository.AccountRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return repository.NewAccountRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *cache.RedisClient) {
	srv := miniredis.RunT(t)
	client, err := cache.NewRedisClient(&config.RedisConfig{Host: srv.Host(), Port: srv.Port()})
	if err != nil {
		t.Fatalf("failed to connect to test redis: %v", err)
	}
	return srv, client
}

func serviceAccountRows(id, categoryID int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "category_id", "email", "password", "supplier", "cost", "pin",
		"creation_date", "service_days", "end_date", "status",
		"profile1", "profile2", "profile3", "profile4", "profile5",
		"observation", "created_at", "updated_at",
	}).AddRow(id, categoryID, "cuenta@mail.com", "cipher", "ProveedorA", 100, "1234",
		nil, 30, nil, "disponible",
		"Juan", "", "", "", "",
		"", now, now)
}

func TestDelete_FailurePushesErrorEvent(t *testing.T) {
	repo, mock := newTestAccountDB(t)
	queue := notify.NewQueue(10)
	notifier := sse.NewNotifier(queue, sse.NewHub())
	svc := NewAccountService(repo, nil, nil, nil, nil, nil, nil, notifier)

	mock.ExpectQuery(`SELECT (.+) FROM admin_accounts WHERE id = \$1 LIMIT 1`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	err := svc.Delete(context.Background(), "u1", models.PoolAdmin, 99)
	if !errors.Is(err, utils.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	events := queue.Drain("u1")
	if len(events) != 1 {
		t.Fatalf("expected 1 queued event, got %d", len(events))
	}
	if events[0].Level != notify.LevelError {
		t.Errorf("expected error level, got %q", events[0].Level)
	}
	if events[0].Message != "No se pudo eliminar la cuenta" {
		t.Errorf("unexpected message: %q", events[0].Message)
	}
}

func TestCreate_InvalidPoolPushesErrorEvent(t *testing.T) {
	repo, mock := newTestAccountDB(t)
	queue := notify.NewQueue(10)
	notifier := sse.NewNotifier(queue, sse.NewHub())
	svc := NewAccountService(repo, nil, nil, nil, nil, nil, nil, notifier)

	_, err := svc.Create(context.Background(), "u1", models.Pool("otra"), &AccountInput{})
	if !errors.Is(err, utils.ErrInvalidPool) {
		t.Fatalf("expected ErrInvalidPool, got %v", err)
	}

	events := queue.Drain("u1")
	if len(events) != 1 || events[0].Level != notify.LevelError {
		t.Fatalf("expected one error event, got %+v", events)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDelete_InvalidatesDashboardStats(t *testing.T) {
	repo, mock := newTestAccountDB(t)
	srv, redisClient := newTestRedis(t)
	queue := notify.NewQueue(10)
	notifier := sse.NewNotifier(queue, sse.NewHub())
	snapshots := cache.NewSnapshotCache(redisClient)
	dashboards := NewDashboardService(repo, redisClient)
	svc := NewAccountService(repo, nil, nil, nil, snapshots, dashboards, nil, notifier)

	if err := srv.Set("dashboard:stats:admin", `{"totalAccounts":5}`); err != nil {
		t.Fatalf("failed to seed stats key: %v", err)
	}

	mock.ExpectQuery(`SELECT (.+) FROM admin_accounts WHERE id = \$1 LIMIT 1`).
		WithArgs(5).
		WillReturnRows(serviceAccountRows(5, 3))
	mock.ExpectExec(`DELETE FROM admin_accounts WHERE id = \$1`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Snapshot reload after invalidation
	mock.ExpectQuery(`SELECT (.+) FROM admin_accounts WHERE category_id = \$1 ORDER BY id`).
		WithArgs(3).
		WillReturnRows(serviceAccountRows(6, 3))

	if err := svc.Delete(context.Background(), "u1", models.PoolAdmin, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if srv.Exists("dashboard:stats:admin") {
		t.Error("mutation should drop the cached dashboard stats")
	}
	events := queue.Drain("u1")
	if len(events) != 1 || events[0].Level != notify.LevelSuccess {
		t.Fatalf("expected one success event, got %+v", events)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/cuentix/inventory_api/internal/models"
)

func newTestAccountRepo(t *testing.T) (*AccountRepository, sqlmock.Sqlmock, *sqlx.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewAccountRepository(sqlxDB), mock, sqlxDB
}

func accountRows(ids ...int) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "category_id", "email", "password", "supplier", "cost", "pin",
		"creation_date", "service_days", "end_date", "status",
		"profile1", "profile2", "profile3", "profile4", "profile5",
		"observation", "created_at", "updated_at",
	})
	now := time.Now()
	for _, id := range ids {
		rows.AddRow(id, 3, "cuenta@mail.com", "cipher", "ProveedorA", 100, "1234",
			nil, 30, nil, "disponible",
			"Juan", "", "", "", "",
			"", now, now)
	}
	return rows
}

func TestGetByCategory_AdminPool(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM admin_accounts WHERE category_id = \$1 ORDER BY id`).
		WithArgs(3).
		WillReturnRows(accountRows(1, 2, 3))

	accounts, err := repo.GetByCategory(models.PoolAdmin, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(accounts))
	}
	if accounts[0].ID != 1 || accounts[0].Status != models.StatusDisponible {
		t.Errorf("unexpected first account: %+v", accounts[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByCategory_SupportPoolTable(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM support_accounts WHERE category_id = \$1`).
		WithArgs(7).
		WillReturnRows(accountRows())

	accounts, err := repo.GetByCategory(models.PoolSupport, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("expected empty snapshot, got %d", len(accounts))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM admin_accounts WHERE id = \$1`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(models.PoolAdmin, 99); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE admin_accounts SET status = \$2`).
		WithArgs(5, models.StatusCaida).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatus(models.PoolAdmin, 5, models.StatusCaida); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateStatus_MissingRow(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE support_accounts SET status = \$2`).
		WithArgs(99, models.StatusDisponible).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateStatus(models.PoolSupport, 99, models.StatusDisponible); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestDelete_MissingRow(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM admin_accounts WHERE id = \$1`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(models.PoolAdmin, 99); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestMoveToSupport(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO support_accounts (.+) FROM admin_accounts WHERE id = \$1`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM admin_accounts WHERE id = \$1`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.MoveToSupport(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMoveToSupport_MissingAccountRollsBack(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO support_accounts`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := repo.MoveToSupport(99); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetDashboardStats(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	statRows := sqlmock.NewRows([]string{
		"total_accounts", "disponibles", "ocupadas", "caidas", "expiring_soon", "total_cost",
	}).AddRow(10, 6, 3, 1, 2, 1000)
	mock.ExpectQuery(`SELECT\s+COUNT\(\*\) AS total_accounts`).WillReturnRows(statRows)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(price\), 0\) FROM stock_listings`).
		WithArgs(models.PoolAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1500))

	mock.ExpectQuery(`SELECT supplier FROM admin_accounts`).
		WillReturnRows(sqlmock.NewRows([]string{"supplier"}).AddRow("ProveedorA"))

	stats, err := repo.GetDashboardStats(models.PoolAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalAccounts != 10 || stats.Disponibles != 6 {
		t.Errorf("wrong status counts: %+v", stats)
	}
	if stats.ListedValue != 1500 {
		t.Errorf("expected listed value 1500, got %d", stats.ListedValue)
	}
	if stats.Margin != 500 {
		t.Errorf("expected margin 500, got %d", stats.Margin)
	}
	if stats.TopSupplier != "ProveedorA" {
		t.Errorf("expected ProveedorA, got %q", stats.TopSupplier)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetDashboardStats_NoSuppliers(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	statRows := sqlmock.NewRows([]string{
		"total_accounts", "disponibles", "ocupadas", "caidas", "expiring_soon", "total_cost",
	}).AddRow(0, 0, 0, 0, 0, 0)
	mock.ExpectQuery(`SELECT\s+COUNT\(\*\) AS total_accounts`).WillReturnRows(statRows)
	mock.ExpectQuery(`FROM stock_listings`).
		WithArgs(models.PoolSupport).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectQuery(`SELECT supplier FROM support_accounts`).
		WillReturnError(sql.ErrNoRows)

	stats, err := repo.GetDashboardStats(models.PoolSupport)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TopSupplier != "" {
		t.Errorf("expected empty top supplier, got %q", stats.TopSupplier)
	}
}

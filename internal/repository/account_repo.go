package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cuentix/inventory_api/internal/models"
)

// accountColumns is the shared column list for both pool tables.
const accountColumns = `id, category_id, email, password, supplier, cost, pin,
	creation_date, service_days, end_date, status,
	profile1, profile2, profile3, profile4, profile5,
	observation, created_at, updated_at`

// AccountRepository handles data access for both account pools. Every method
// takes the pool explicitly; the two tables are structurally identical and
// never mixed.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetByCategory returns the full snapshot of a category, oldest first. The
// listing engine paginates in memory; this query never does.
func (r *AccountRepository) GetByCategory(pool models.Pool, categoryID int) ([]models.Account, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE category_id = $1 ORDER BY id`, accountColumns, pool.Table())
	accounts := []models.Account{}
	if err := r.db.Select(&accounts, q, categoryID); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetByID returns a single account by id.
func (r *AccountRepository) GetByID(pool models.Pool, id int) (*models.Account, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 LIMIT 1`, accountColumns, pool.Table())
	var a models.Account
	if err := r.db.Get(&a, q, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new account and backfills id and timestamps.
func (r *AccountRepository) Create(pool models.Pool, a *models.Account) error {
	q := fmt.Sprintf(`
		INSERT INTO %s (category_id, email, password, supplier, cost, pin,
			creation_date, service_days, end_date, status,
			profile1, profile2, profile3, profile4, profile5, observation)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING id, created_at, updated_at`, pool.Table())
	return r.db.QueryRowx(q,
		a.CategoryID, a.Email, a.Password, a.Supplier, a.Cost, a.PIN,
		a.CreationDate, a.ServiceDays, a.EndDate, a.Status,
		a.Profile1, a.Profile2, a.Profile3, a.Profile4, a.Profile5, a.Observation,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// Update rewrites an existing account. Status is deliberately not part of
// this statement: caida is only reachable through ReportIssue.
func (r *AccountRepository) Update(pool models.Pool, a *models.Account) error {
	q := fmt.Sprintf(`
		UPDATE %s SET category_id = $1, email = $2, password = $3, supplier = $4,
			cost = $5, pin = $6, creation_date = $7, service_days = $8, end_date = $9,
			profile1 = $10, profile2 = $11, profile3 = $12, profile4 = $13, profile5 = $14,
			observation = $15, updated_at = NOW()
		WHERE id = $16
		RETURNING updated_at`, pool.Table())
	return r.db.QueryRowx(q,
		a.CategoryID, a.Email, a.Password, a.Supplier,
		a.Cost, a.PIN, a.CreationDate, a.ServiceDays, a.EndDate,
		a.Profile1, a.Profile2, a.Profile3, a.Profile4, a.Profile5,
		a.Observation, a.ID,
	).Scan(&a.UpdatedAt)
}

// UpdateStatus sets the lifecycle status of an account.
func (r *AccountRepository) UpdateStatus(pool models.Pool, id int, status models.AccountStatus) error {
	q := fmt.Sprintf(`UPDATE %s SET status = $2, updated_at = NOW() WHERE id = $1`, pool.Table())
	res, err := r.db.Exec(q, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an account by id.
func (r *AccountRepository) Delete(pool models.Pool, id int) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, pool.Table())
	res, err := r.db.Exec(q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// BulkCreate inserts a batch of accounts inside one transaction. Used by
// the import endpoint; a single bad row aborts the whole batch.
func (r *AccountRepository) BulkCreate(pool models.Pool, accounts []models.Account) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`
		INSERT INTO %s (category_id, email, password, supplier, cost, pin,
			creation_date, service_days, end_date, status,
			profile1, profile2, profile3, profile4, profile5, observation)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`, pool.Table())
	for i := range accounts {
		a := &accounts[i]
		if _, err := tx.Exec(q,
			a.CategoryID, a.Email, a.Password, a.Supplier, a.Cost, a.PIN,
			a.CreationDate, a.ServiceDays, a.EndDate, a.Status,
			a.Profile1, a.Profile2, a.Profile3, a.Profile4, a.Profile5, a.Observation,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// MoveToSupport moves an admin account into the support pool: one insert
// and one delete in a single transaction.
func (r *AccountRepository) MoveToSupport(id int) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	const insert = `
		INSERT INTO support_accounts (category_id, email, password, supplier, cost, pin,
			creation_date, service_days, end_date, status,
			profile1, profile2, profile3, profile4, profile5, observation)
		SELECT category_id, email, password, supplier, cost, pin,
			creation_date, service_days, end_date, status,
			profile1, profile2, profile3, profile4, profile5, observation
		FROM admin_accounts WHERE id = $1`
	res, err := tx.Exec(insert, id)
	if err != nil {
		tx.Rollback()
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return sql.ErrNoRows
	}
	if _, err := tx.Exec(`DELETE FROM admin_accounts WHERE id = $1`, id); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// DashboardStats holds the aggregate KPIs for one pool.
type DashboardStats struct {
	TotalAccounts int    `db:"total_accounts" json:"totalAccounts"`
	Disponibles   int    `db:"disponibles" json:"disponibles"`
	Ocupadas      int    `db:"ocupadas" json:"ocupadas"`
	Caidas        int    `db:"caidas" json:"caidas"`
	ExpiringSoon  int    `db:"expiring_soon" json:"expiringSoon"`
	TotalCost     int    `db:"total_cost" json:"totalCost"`
	ListedValue   int    `json:"listedValue"`
	Margin        int    `json:"margin"`
	TopSupplier   string `json:"topSupplier"`
}

// GetDashboardStats computes the aggregate panel for a pool: status counts,
// accounts expiring within 7 days, summed cost, listed (unsold) stock value,
// margin and the supplier with the most accounts.
func (r *AccountRepository) GetDashboardStats(pool models.Pool) (*DashboardStats, error) {
	q := fmt.Sprintf(`SELECT
			COUNT(*) AS total_accounts,
			COUNT(*) FILTER (WHERE status = 'disponible') AS disponibles,
			COUNT(*) FILTER (WHERE status = 'ocupada') AS ocupadas,
			COUNT(*) FILTER (WHERE status = 'caida') AS caidas,
			COUNT(*) FILTER (WHERE end_date IS NOT NULL
				AND end_date > NOW() AND end_date <= NOW() + interval '7 days') AS expiring_soon,
			COALESCE(SUM(cost), 0) AS total_cost
		FROM %s`, pool.Table())

	var stats DashboardStats
	if err := r.db.Get(&stats, q); err != nil {
		return nil, err
	}

	const listedQ = `SELECT COALESCE(SUM(price), 0) FROM stock_listings
		WHERE source_type = $1 AND is_sold = false`
	if err := r.db.Get(&stats.ListedValue, listedQ, pool); err != nil {
		return nil, err
	}
	stats.Margin = stats.ListedValue - stats.TotalCost

	topQ := fmt.Sprintf(`SELECT supplier FROM %s
		WHERE supplier <> '' GROUP BY supplier
		ORDER BY COUNT(*) DESC, supplier LIMIT 1`, pool.Table())
	if err := r.db.Get(&stats.TopSupplier, topQ); err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	return &stats, nil
}

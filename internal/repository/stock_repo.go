package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/cuentix/inventory_api/internal/models"
)

// StockRepository handles data access for published stock listings.
type StockRepository struct {
	db *sqlx.DB
}

// NewStockRepository creates a new StockRepository.
func NewStockRepository(db *sqlx.DB) *StockRepository {
	return &StockRepository{db: db}
}

// CreateBatch inserts all listings of one publish in a single transaction
// and backfills ids.
func (r *StockRepository) CreateBatch(listings []models.StockListing) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO stock_listings (source_id, source_type, category_id, sell_type,
			unit, price, pin, display_name, is_sold)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,false)
		RETURNING id, created_at`
	for i := range listings {
		l := &listings[i]
		if err := tx.QueryRowx(q,
			l.SourceID, l.SourceType, l.CategoryID, l.SellType,
			l.Unit, l.Price, l.PIN, l.DisplayName,
		).Scan(&l.ID, &l.CreatedAt); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// GetBySource returns all listings published from one source account.
func (r *StockRepository) GetBySource(pool models.Pool, sourceID int) ([]models.StockListing, error) {
	const q = `
		SELECT id, source_id, source_type, category_id, sell_type, unit, price, pin,
			display_name, is_sold, created_at
		FROM stock_listings
		WHERE source_type = $1 AND source_id = $2
		ORDER BY id`
	listings := []models.StockListing{}
	if err := r.db.Select(&listings, q, pool, sourceID); err != nil {
		return nil, err
	}
	return listings, nil
}

// GetByID returns a single listing.
func (r *StockRepository) GetByID(id int) (*models.StockListing, error) {
	const q = `
		SELECT id, source_id, source_type, category_id, sell_type, unit, price, pin,
			display_name, is_sold, created_at
		FROM stock_listings WHERE id = $1 LIMIT 1`
	var l models.StockListing
	if err := r.db.Get(&l, q, id); err != nil {
		return nil, err
	}
	return &l, nil
}

// MarkSold flags a listing as sold.
func (r *StockRepository) MarkSold(id int) error {
	_, err := r.db.Exec(`UPDATE stock_listings SET is_sold = true WHERE id = $1`, id)
	return err
}

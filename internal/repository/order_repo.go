package repository

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cuentix/inventory_api/internal/models"
)

// OrderRepository handles data access for manually recorded internal sales.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, reference_id, listing_id, source_id, source_type, unit,
	buyer, price, seller_id, sale_date, created_at`

// Create inserts a new internal order.
func (r *OrderRepository) Create(o *models.InternalOrder) error {
	const q = `
		INSERT INTO internal_orders (reference_id, listing_id, source_id, source_type,
			unit, buyer, price, seller_id, sale_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at`
	return r.db.QueryRowx(q,
		o.ReferenceID, o.ListingID, o.SourceID, o.SourceType,
		o.Unit, o.Buyer, o.Price, o.SellerID, o.SaleDate,
	).Scan(&o.ID, &o.CreatedAt)
}

// SearchByDate returns orders whose sale date falls in [from, to], newest
// first.
func (r *OrderRepository) SearchByDate(from, to time.Time) ([]models.InternalOrder, error) {
	q := `SELECT ` + orderColumns + `
		FROM internal_orders
		WHERE sale_date >= $1 AND sale_date <= $2
		ORDER BY sale_date DESC, id DESC`
	orders := []models.InternalOrder{}
	if err := r.db.Select(&orders, q, from, to); err != nil {
		return nil, err
	}
	return orders, nil
}

// SearchByReference returns the order with the given reference id.
func (r *OrderRepository) SearchByReference(referenceID string) (*models.InternalOrder, error) {
	q := `SELECT ` + orderColumns + ` FROM internal_orders WHERE reference_id = $1 LIMIT 1`
	var o models.InternalOrder
	if err := r.db.Get(&o, q, referenceID); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetDaily returns all orders recorded on the given calendar day.
func (r *OrderRepository) GetDaily(day time.Time) ([]models.InternalOrder, error) {
	q := `SELECT ` + orderColumns + `
		FROM internal_orders
		WHERE sale_date >= $1::date AND sale_date < ($1::date + interval '1 day')
		ORDER BY sale_date, id`
	orders := []models.InternalOrder{}
	if err := r.db.Select(&orders, q, day.Format("2006-01-02")); err != nil {
		return nil, err
	}
	return orders, nil
}

package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/cuentix/inventory_api/internal/models"
)

// CategoryRepository provides the fixed platform category enumeration.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetAll returns all active categories ordered by name.
func (r *CategoryRepository) GetAll() ([]models.Category, error) {
	const q = `SELECT id, name, is_active FROM categories WHERE is_active = true ORDER BY name`
	categories := []models.Category{}
	if err := r.db.Select(&categories, q); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID returns a single category.
func (r *CategoryRepository) GetByID(id int) (*models.Category, error) {
	const q = `SELECT id, name, is_active FROM categories WHERE id = $1 LIMIT 1`
	var c models.Category
	if err := r.db.Get(&c, q, id); err != nil {
		return nil, err
	}
	return &c, nil
}

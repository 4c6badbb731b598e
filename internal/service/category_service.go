package service

import (
	"database/sql"

	"github.com/cuentix/inventory_api/internal/models"
	"github.com/cuentix/inventory_api/internal/repository"
	"github.com/cuentix/inventory_api/internal/utils"
)

// CategoryService serves the service categories the inventory is grouped by.
type CategoryService struct {
	categoryRepo *repository.CategoryRepository
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(categoryRepo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List returns all categories.
func (s *CategoryService) List() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// Get returns one category by id.
func (s *CategoryService) Get(id int) (*models.Category, error) {
	cat, err := s.categoryRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrInvalidCategory
		}
		return nil, err
	}
	return cat, nil
}

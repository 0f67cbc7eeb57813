package repositories

import (
	"spiritbeads/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(categorySlug string) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Count() (int64, error)
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	Create(category *models.Category) error
}

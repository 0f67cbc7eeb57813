package repositories

import (
	"spiritbeads/internal/models"
)

// CustomOrderRepository defines the interface for custom order request data
// access.
type CustomOrderRepository interface {
	Create(request *models.CustomOrderRequest) error
	GetByID(id string) (*models.CustomOrderRequest, error)
}

package repositories

import (
	"errors"
	"fmt"

	"spiritbeads/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCustomOrderRepository is a GORM implementation of
// CustomOrderRepository.
type GORMCustomOrderRepository struct {
	db *gorm.DB
}

// NewGORMCustomOrderRepository creates a new instance of
// GORMCustomOrderRepository.
func NewGORMCustomOrderRepository(db *gorm.DB) *GORMCustomOrderRepository {
	return &GORMCustomOrderRepository{db: db}
}

// Create persists a custom order request.
func (r *GORMCustomOrderRepository) Create(request *models.CustomOrderRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if err := r.db.Create(request).Error; err != nil {
		return fmt.Errorf("failed to create custom order request: %w", err)
	}
	return nil
}

// GetByID retrieves a single custom order request.
func (r *GORMCustomOrderRepository) GetByID(id string) (*models.CustomOrderRequest, error) {
	var request models.CustomOrderRequest
	if err := r.db.First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("custom order request with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get custom order request by ID %s: %w", id, err)
	}
	return &request, nil
}

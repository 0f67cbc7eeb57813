package repositories

import (
	"errors"
	"fmt"
	"time"

	"spiritbeads/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetBySessionID retrieves the order created for a checkout session.
func (r *GORMOrderRepository) GetBySessionID(sessionID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "stripe_session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order for session %s: %w", sessionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order for session %s: %w", sessionID, err)
	}
	return &order, nil
}

// Create persists an order together with its item snapshots.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// MarkPaid transitions an order from pending to paid and decrements
// inventory, all inside one transaction keyed by the provider event ID.
//
// The event insert hits the ProcessedEvent unique index on replay, rolling
// the whole transaction back before any side effect: the same
// checkout.session.completed delivery can arrive any number of times and
// inventory moves exactly once. The status change itself is a conditional
// update on status=pending, so a concurrent delivery that lost the race, or
// an event for an order that already failed, records the event and stops.
func (r *GORMOrderRepository) MarkPaid(orderID, eventID string, details PaidDetails) (bool, error) {
	applied := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := recordEvent(tx, eventID); err != nil {
			return err
		}

		res := tx.Model(&models.Order{ID: orderID}).
			Where("status = ?", models.OrderStatusPending).
			Select("Status", "StripePaymentIntent", "CustomerEmail", "ShippingAddress", "UpdatedAt").
			Updates(models.Order{
				Status:              models.OrderStatusPaid,
				StripePaymentIntent: details.PaymentIntent,
				CustomerEmail:       details.CustomerEmail,
				ShippingAddress:     details.ShippingAddress,
				UpdatedAt:           time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to mark order %s paid: %w", orderID, res.Error)
		}
		if res.RowsAffected == 0 {
			// Order already left pending; keep the event recorded but apply
			// no inventory change.
			return nil
		}
		applied = true

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
			return fmt.Errorf("failed to load items for order %s: %w", orderID, err)
		}

		for _, item := range items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("inventory_count", gorm.Expr("inventory_count - ?", item.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to decrement inventory for product %s: %w", item.ProductID, err)
			}
			// Clamp at zero and flip the sold-out flag in the same breath.
			if err := tx.Model(&models.Product{}).
				Where("id = ? AND inventory_count <= 0", item.ProductID).
				UpdateColumns(map[string]interface{}{
					"inventory_count": 0,
					"is_sold_out":     true,
				}).Error; err != nil {
				return fmt.Errorf("failed to mark product %s sold out: %w", item.ProductID, err)
			}
		}
		return nil
	})
	return applied, err
}

// MarkFailed transitions an order from pending to failed, typically on a
// checkout.session.expired event. Replays are dropped the same way as in
// MarkPaid.
func (r *GORMOrderRepository) MarkFailed(orderID, eventID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := recordEvent(tx, eventID); err != nil {
			return err
		}

		res := tx.Model(&models.Order{ID: orderID}).
			Where("status = ?", models.OrderStatusPending).
			Select("Status", "UpdatedAt").
			Updates(models.Order{
				Status:    models.OrderStatusFailed,
				UpdatedAt: time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to mark order %s failed: %w", orderID, res.Error)
		}
		return nil
	})
}

func recordEvent(tx *gorm.DB, eventID string) error {
	err := tx.Create(&models.ProcessedEvent{EventID: eventID, ProcessedAt: time.Now()}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyProcessed
		}
		return fmt.Errorf("failed to record event %s: %w", eventID, err)
	}
	return nil
}

package repositories

import (
	"spiritbeads/internal/models"
)

// PaidDetails carries everything the payment provider reports on a
// completed checkout session.
type PaidDetails struct {
	PaymentIntent   string
	CustomerEmail   string
	ShippingAddress *models.ShippingAddress
}

// OrderRepository defines the interface for order data access.
//
// MarkPaid and MarkFailed apply a webhook event in one transaction: the
// event ID is recorded first (ErrAlreadyProcessed on replay), then the
// status transition runs as a conditional update so an order that already
// left pending is never touched again. MarkPaid additionally decrements
// inventory for each order item, clamping at zero.
type OrderRepository interface {
	GetByID(id string) (*models.Order, error)
	GetBySessionID(sessionID string) (*models.Order, error)
	Create(order *models.Order) error
	// MarkPaid reports whether the pending→paid transition applied; false
	// with a nil error means the order had already left pending.
	MarkPaid(orderID, eventID string, details PaidDetails) (bool, error)
	MarkFailed(orderID, eventID string) error
}

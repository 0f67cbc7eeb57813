package models

import "time"

// Order statuses. An order is created pending, moves to paid exactly once on
// a verified checkout.session.completed event, or to failed when the session
// expires. It never leaves paid.
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

// ShippingAddress mirrors the address object Stripe attaches to a completed
// checkout session.
type ShippingAddress struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Order is the canonical record of a sale.
type Order struct {
	ID                  string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	StripeSessionID     string           `json:"stripe_session_id" gorm:"uniqueIndex;type:varchar(255)"`
	StripePaymentIntent string           `json:"stripe_payment_intent" gorm:"type:varchar(255)"`
	AmountTotal         int64            `json:"amount_total"` // cents
	Currency            string           `json:"currency" gorm:"type:varchar(10);default:usd"`
	Status              string           `json:"status" gorm:"type:varchar(20);default:pending"`
	CustomerEmail       string           `json:"customer_email" gorm:"type:varchar(255)"`
	ShippingAddress     *ShippingAddress `json:"shipping_address" gorm:"serializer:json"`
	Items               []OrderItem      `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// OrderItem is one line of an order. UnitPrice is a snapshot in cents taken
// at order-creation time; later product price changes do not touch it.
type OrderItem struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	OrderID   string `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID string `json:"product_id" gorm:"type:varchar(36)"`
	UnitPrice int64  `json:"unit_price"` // cents
	Quantity  int    `json:"quantity"`
}

// ProcessedEvent records a payment-provider event that has already been
// applied. The unique event ID is the idempotency key guarding webhook
// replays: a second delivery of the same event hits the unique index and is
// dropped before any side effect runs.
type ProcessedEvent struct {
	EventID     string    `json:"event_id" gorm:"primaryKey;type:varchar(255)"`
	ProcessedAt time.Time `json:"processed_at"`
}

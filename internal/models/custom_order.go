package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomOrderRequest lifecycle. Only the pending state is reachable through
// the public intake endpoint; the rest are set by the shop owner while a
// request moves through review, payment and production.
const (
	CustomOrderStatusPending      = "pending"
	CustomOrderStatusApproved     = "approved"
	CustomOrderStatusRejected     = "rejected"
	CustomOrderStatusPaid         = "paid"
	CustomOrderStatusInProduction = "in_production"
	CustomOrderStatusShipped      = "shipped"
	CustomOrderStatusCompleted    = "completed"
)

// CustomOrderRequest is a free-form request for a made-to-order lighter,
// submitted with reference images.
type CustomOrderRequest struct {
	ID          string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string           `json:"name" gorm:"type:varchar(100)"`
	Email       string           `json:"email" gorm:"type:varchar(255)"`
	Description string           `json:"description"`
	Colors      string           `json:"colors" gorm:"type:varchar(200)"`
	Images      []string         `json:"images" gorm:"serializer:json"`
	Status      string           `json:"status" gorm:"type:varchar(20);default:pending"`
	AdminNotes  string           `json:"admin_notes"`
	QuotedPrice *decimal.Decimal `json:"quoted_price" gorm:"type:decimal(10,2)"`
	OrderID     *string          `json:"related_order" gorm:"type:varchar(36)"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

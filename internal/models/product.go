package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Lighter types carried on every product. The display names mirror what the
// storefront shows.
const (
	LighterTypeClassic = 1
	LighterTypeMini    = 2
)

// Category groups products for catalog browsing.
type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"type:varchar(100)" validate:"required,min=3,max=100"`
	Slug        string `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"required"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// Product represents a handcrafted lighter in the catalog.
// Price is kept in major currency units; checkout converts to cents.
type Product struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name           string          `json:"name" validate:"required,min=3,max=100"`
	Slug           string          `json:"slug" gorm:"uniqueIndex;type:varchar(120)"`
	Description    string          `json:"description" validate:"omitempty,max=500"`
	LighterType    int             `json:"lighter_type" gorm:"default:1"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(10,2)" validate:"required"`
	InventoryCount int             `json:"inventory_count" validate:"gte=0"`
	IsSoldOut      bool            `json:"is_sold_out"`
	IsActive       bool            `json:"is_active" gorm:"default:true"`
	WeightOunces   float64         `json:"weight_ounces"`
	PrimaryImage   string          `json:"primary_image"`
	SecondaryImage string          `json:"secondary_image"`
	CategoryID     *uint           `json:"category"`
	Category       *Category       `json:"category_detail,omitempty" gorm:"foreignKey:CategoryID"`
	gorm.Model     `json:"-"`
}

// LighterTypeDisplay returns the human readable name for the lighter type.
func (p *Product) LighterTypeDisplay() string {
	switch p.LighterType {
	case LighterTypeMini:
		return "Mini"
	default:
		return "Classic"
	}
}

// IsInStock reports whether the product can still be ordered.
func (p *Product) IsInStock() bool {
	return p.IsActive && !p.IsSoldOut && p.InventoryCount > 0
}

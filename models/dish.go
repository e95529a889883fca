package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dish is never physically deleted; removal clears IsAvailable so order
// items keep a valid reference.
type Dish struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	KitchenID   uint            `json:"kitchen_id" gorm:"not null;index"`
	Kitchen     *KitchenProfile `json:"kitchen,omitempty" gorm:"foreignKey:KitchenID"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL    string          `json:"image_url"`
	IsAvailable bool            `json:"is_available" gorm:"not null;default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

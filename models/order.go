package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusAccepted   OrderStatus = "accepted"
	StatusPreparing  OrderStatus = "preparing"
	StatusReady      OrderStatus = "ready"
	StatusDelivering OrderStatus = "delivering"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []OrderStatus{
	StatusPending,
	StatusAccepted,
	StatusPreparing,
	StatusReady,
	StatusDelivering,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type Order struct {
	ID            uint                 `json:"id" gorm:"primaryKey"`
	CustomerID    uint                 `json:"customer_id" gorm:"not null;index"`
	Customer      *CustomerProfile     `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	KitchenID     uint                 `json:"kitchen_id" gorm:"not null;index"`
	Kitchen       *KitchenProfile      `json:"kitchen,omitempty" gorm:"foreignKey:KitchenID"`
	CourierID     *uint                `json:"courier_id" gorm:"index"`
	Courier       *CourierProfile      `json:"courier,omitempty" gorm:"foreignKey:CourierID"`
	Status        OrderStatus          `json:"status" gorm:"not null;default:'pending';index"`
	Total         decimal.Decimal      `json:"total" gorm:"type:decimal(10,2);not null"`
	Items         []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// OrderItem snapshots the dish name and price at creation time so later
// catalog edits never alter a placed order.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"not null;index"`
	DishID    uint            `json:"dish_id" gorm:"not null;index"`
	Dish      *Dish           `json:"dish,omitempty" gorm:"foreignKey:DishID"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Quantity  int             `json:"quantity" gorm:"not null;check:quantity >= 1"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
}

// OrderStatusHistory tracks every status change
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Role       UserRole    `json:"role"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Package pricing turns a customer's line requests into priced order items.
//
// Prices are read from the catalog once, at quote time, and copied into the
// items; the quote is the snapshot that the order keeps for good.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"mocardapio-api/apperr"
	"mocardapio-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxQuantity caps a single line.
const MaxQuantity = 999

// MaxAmount is the exclusive bound of every stored amount; money columns are
// decimal(10,2).
var MaxAmount = decimal.New(1, 8)

// Line is one requested dish and its quantity.
type Line struct {
	DishID   uint `json:"dish_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"min=1,max=999"`
}

// Quote is the priced result: unsaved items and their total.
type Quote struct {
	Total decimal.Decimal
	Items []models.OrderItem
}

// ComputeOrder prices lines against kitchenID's dishes. It only reads; pass the
// transaction handle that will persist the order so both share one transaction.
func ComputeOrder(ctx context.Context, db *gorm.DB, kitchenID uint, lines []Line) (Quote, error) {
	if len(lines) == 0 {
		return Quote{}, apperr.ErrNoItems
	}

	quote := Quote{Total: decimal.Zero, Items: make([]models.OrderItem, 0, len(lines))}
	for i, line := range lines {
		if line.Quantity < 1 || line.Quantity > MaxQuantity {
			return Quote{}, fmt.Errorf("%w (item %d: %d)", apperr.ErrInvalidQuantity, i, line.Quantity)
		}

		var dish models.Dish
		if err := db.WithContext(ctx).First(&dish, line.DishID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Quote{}, fmt.Errorf("%w: %d", apperr.ErrDishNotFound, line.DishID)
			}
			return Quote{}, fmt.Errorf("load dish %d: %w", line.DishID, err)
		}
		if dish.KitchenID != kitchenID {
			return Quote{}, fmt.Errorf("%w: %d", apperr.ErrDishNotInKitchen, dish.ID)
		}
		if !dish.IsAvailable {
			return Quote{}, fmt.Errorf("%w: %s", apperr.ErrDishUnavailable, dish.Name)
		}

		subtotal := dish.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		if subtotal.GreaterThanOrEqual(MaxAmount) {
			return Quote{}, fmt.Errorf("%w (item %d subtotal %s)", apperr.ErrAmountTooLarge, i, subtotal)
		}
		quote.Total = quote.Total.Add(subtotal)
		if quote.Total.GreaterThanOrEqual(MaxAmount) {
			return Quote{}, fmt.Errorf("%w (total %s)", apperr.ErrAmountTooLarge, quote.Total)
		}
		quote.Items = append(quote.Items, models.OrderItem{
			DishID:    dish.ID,
			Name:      dish.Name,
			UnitPrice: dish.Price,
			Quantity:  line.Quantity,
			Subtotal:  subtotal,
		})
	}
	return quote, nil
}

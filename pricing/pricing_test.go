package pricing_test

import (
	"context"
	"testing"

	"mocardapio-api/apperr"
	"mocardapio-api/dbtest"
	"mocardapio-api/models"
	"mocardapio-api/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeOrder_TwoBurgersAndFries(t *testing.T) {
	db := dbtest.New(t)
	f := dbtest.Seed(t, db)

	q, err := pricing.ComputeOrder(context.Background(), db, f.Kitchen.ID, []pricing.Line{
		{DishID: f.Burger.ID, Quantity: 2},
		{DishID: f.Fries.ID, Quantity: 1},
	})
	require.NoError(t, err)

	assert.True(t, q.Total.Equal(dec("25.00")), "total %s", q.Total)
	require.Len(t, q.Items, 2)
	assert.True(t, q.Items[0].Subtotal.Equal(dec("20.00")))
	assert.True(t, q.Items[1].Subtotal.Equal(dec("5.00")))
	assert.Equal(t, "Burger", q.Items[0].Name)
	assert.True(t, q.Items[0].UnitPrice.Equal(dec("10.00")))
}

func TestComputeOrder_ExactDecimalArithmetic(t *testing.T) {
	db := dbtest.New(t)
	f := dbtest.Seed(t, db)
	// 0.10 and 0.20 drift in binary floating point.
	dime := dbtest.Dish(t, db, f.Kitchen.ID, "Bala", "0.10", true)
	twenty := dbtest.Dish(t, db, f.Kitchen.ID, "Chiclete", "0.20", true)

	q, err := pricing.ComputeOrder(context.Background(), db, f.Kitchen.ID, []pricing.Line{
		{DishID: dime.ID, Quantity: 3},
		{DishID: twenty.ID, Quantity: 7},
	})
	require.NoError(t, err)

	assert.Equal(t, "1.7", q.Total.String())
	sum := decimal.Zero
	for _, it := range q.Items {
		assert.True(t, it.Subtotal.Equal(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))))
		sum = sum.Add(it.Subtotal)
	}
	assert.True(t, sum.Equal(q.Total))
}

func TestComputeOrder_Rejections(t *testing.T) {
	db := dbtest.New(t)
	f := dbtest.Seed(t, db)
	ctx := context.Background()

	cases := []struct {
		name  string
		lines []pricing.Line
		want  error
	}{
		{"no items", nil, apperr.ErrNoItems},
		{"zero quantity", []pricing.Line{{DishID: f.Burger.ID, Quantity: 0}}, apperr.ErrInvalidQuantity},
		{"negative quantity", []pricing.Line{{DishID: f.Burger.ID, Quantity: -2}}, apperr.ErrInvalidQuantity},
		{"missing dish", []pricing.Line{{DishID: 9999, Quantity: 1}}, apperr.ErrDishNotFound},
		{"unavailable dish", []pricing.Line{{DishID: f.OffMenu.ID, Quantity: 1}}, apperr.ErrDishUnavailable},
		{"other kitchen's dish", []pricing.Line{{DishID: f.Elsewhere.ID, Quantity: 1}}, apperr.ErrDishNotInKitchen},
		{"bad line after good one", []pricing.Line{
			{DishID: f.Burger.ID, Quantity: 1},
			{DishID: f.OffMenu.ID, Quantity: 1},
		}, apperr.ErrDishUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pricing.ComputeOrder(ctx, db, f.Kitchen.ID, tc.lines)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestComputeOrder_AmountBounds(t *testing.T) {
	db := dbtest.New(t)
	f := dbtest.Seed(t, db)
	ctx := context.Background()
	priciest := dbtest.Dish(t, db, f.Kitchen.ID, "Banquete", "99999999.99", true)
	half := dbtest.Dish(t, db, f.Kitchen.ID, "Meio banquete", "60000000.00", true)

	// largest order that still fits decimal(10,2)
	q, err := pricing.ComputeOrder(ctx, db, f.Kitchen.ID, []pricing.Line{{DishID: priciest.ID, Quantity: 1}})
	require.NoError(t, err)
	assert.True(t, q.Total.Equal(dec("99999999.99")))

	q, err = pricing.ComputeOrder(ctx, db, f.Kitchen.ID, []pricing.Line{{DishID: f.Burger.ID, Quantity: pricing.MaxQuantity}})
	require.NoError(t, err)
	assert.True(t, q.Total.Equal(dec("9990.00")))

	cases := []struct {
		name  string
		lines []pricing.Line
		want  error
	}{
		{"quantity above max", []pricing.Line{{DishID: f.Burger.ID, Quantity: pricing.MaxQuantity + 1}}, apperr.ErrInvalidQuantity},
		{"huge quantity", []pricing.Line{{DishID: priciest.ID, Quantity: 2147483647}}, apperr.ErrInvalidQuantity},
		{"subtotal overflows", []pricing.Line{{DishID: priciest.ID, Quantity: 2}}, apperr.ErrAmountTooLarge},
		{"total overflows", []pricing.Line{
			{DishID: half.ID, Quantity: 1},
			{DishID: half.ID, Quantity: 1},
		}, apperr.ErrAmountTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pricing.ComputeOrder(ctx, db, f.Kitchen.ID, tc.lines)
			require.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestComputeOrder_DoesNotTouchDishes(t *testing.T) {
	db := dbtest.New(t)
	f := dbtest.Seed(t, db)

	_, err := pricing.ComputeOrder(context.Background(), db, f.Kitchen.ID, []pricing.Line{{DishID: f.Burger.ID, Quantity: 4}})
	require.NoError(t, err)

	var after models.Dish
	require.NoError(t, db.First(&after, f.Burger.ID).Error)
	assert.Equal(t, f.Burger.UpdatedAt.Unix(), after.UpdatedAt.Unix())
	assert.True(t, after.Price.Equal(dec("10.00")))
}

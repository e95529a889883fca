// Package dbtest opens throwaway in-memory stores and seeds fixtures for tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"mocardapio-api/config"
	"mocardapio-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Int64

// New returns a migrated, isolated in-memory SQLite store that lives for the test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := config.OpenDB(config.Config{DBDriver: "sqlite", DatabaseDSN: dsn})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Fixtures holds the rows created by Seed.
type Fixtures struct {
	CustomerUser models.User
	Customer     models.CustomerProfile
	OtherCust    models.CustomerProfile

	KitchenUser  models.User
	Kitchen      models.KitchenProfile
	OtherKitchen models.KitchenProfile

	CourierUser  models.User
	Courier      models.CourierProfile
	OtherCourier models.CourierProfile

	Admin   models.User
	Support models.User

	Burger    models.Dish // 10.00
	Fries     models.Dish // 5.00
	OffMenu   models.Dish // unavailable
	Elsewhere models.Dish // belongs to OtherKitchen
}

// Seed creates one user per role, a second customer, kitchen and courier, and a small menu.
func Seed(t testing.TB, db *gorm.DB) Fixtures {
	t.Helper()
	var f Fixtures

	f.CustomerUser = User(t, db, "customer@test.io", models.RoleCustomer)
	f.Customer = models.CustomerProfile{UserID: f.CustomerUser.ID, Address: "Rua A, 1", Phone: "1111"}
	require.NoError(t, db.Create(&f.Customer).Error)

	other := User(t, db, "customer2@test.io", models.RoleCustomer)
	f.OtherCust = models.CustomerProfile{UserID: other.ID, Address: "Rua B, 2", Phone: "2222"}
	require.NoError(t, db.Create(&f.OtherCust).Error)

	f.KitchenUser = User(t, db, "kitchen@test.io", models.RoleKitchen)
	f.Kitchen = models.KitchenProfile{UserID: f.KitchenUser.ID, Name: "Cozinha da Vó", Location: "Centro", Specialty: "caseira", IsAvailable: true}
	require.NoError(t, db.Create(&f.Kitchen).Error)

	otherK := User(t, db, "kitchen2@test.io", models.RoleKitchen)
	f.OtherKitchen = models.KitchenProfile{UserID: otherK.ID, Name: "Sushi Bar", Location: "Sul", Specialty: "japonesa", IsAvailable: true}
	require.NoError(t, db.Create(&f.OtherKitchen).Error)

	f.CourierUser = User(t, db, "courier@test.io", models.RoleCourier)
	f.Courier = models.CourierProfile{UserID: f.CourierUser.ID, Vehicle: "moto", IsAvailable: true}
	require.NoError(t, db.Create(&f.Courier).Error)

	otherC := User(t, db, "courier2@test.io", models.RoleCourier)
	f.OtherCourier = models.CourierProfile{UserID: otherC.ID, Vehicle: "bike", IsAvailable: true}
	require.NoError(t, db.Create(&f.OtherCourier).Error)

	f.Admin = User(t, db, "admin@test.io", models.RoleAdmin)
	f.Support = User(t, db, "support@test.io", models.RoleSupport)

	f.Burger = Dish(t, db, f.Kitchen.ID, "Burger", "10.00", true)
	f.Fries = Dish(t, db, f.Kitchen.ID, "Fries", "5.00", true)
	f.OffMenu = Dish(t, db, f.Kitchen.ID, "Feijoada", "30.00", false)
	f.Elsewhere = Dish(t, db, f.OtherKitchen.ID, "Temaki", "22.50", true)
	return f
}

// User inserts a user with a throwaway password hash.
func User(t testing.TB, db *gorm.DB, email string, role models.UserRole) models.User {
	t.Helper()
	u := models.User{Name: strings.Split(email, "@")[0], Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// Dish inserts a dish. Availability is written explicitly because gorm skips
// zero values when a column has a default.
func Dish(t testing.TB, db *gorm.DB, kitchenID uint, name, price string, available bool) models.Dish {
	t.Helper()
	d := models.Dish{KitchenID: kitchenID, Name: name, Price: decimal.RequireFromString(price), IsAvailable: true}
	require.NoError(t, db.Create(&d).Error)
	if !available {
		require.NoError(t, db.Model(&d).Update("is_available", false).Error)
		d.IsAvailable = false
	}
	return d
}

// Order inserts an order directly in the given status, bypassing pricing.
func Order(t testing.TB, db *gorm.DB, f Fixtures, status models.OrderStatus, courierID *uint) models.Order {
	t.Helper()
	o := models.Order{
		CustomerID: f.Customer.ID,
		KitchenID:  f.Kitchen.ID,
		CourierID:  courierID,
		Status:     status,
		Total:      decimal.RequireFromString("10.00"),
		Items: []models.OrderItem{{
			DishID:    f.Burger.ID,
			Name:      f.Burger.Name,
			UnitPrice: f.Burger.Price,
			Quantity:  1,
			Subtotal:  f.Burger.Price,
		}},
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}

package services_test

import (
	"testing"

	"mocardapio-api/authz"
	"mocardapio-api/dbtest"
	"mocardapio-api/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type cast struct {
	customer      authz.Actor
	otherCustomer authz.Actor
	kitchen       authz.Actor
	otherKitchen  authz.Actor
	courier       authz.Actor
	otherCourier  authz.Actor
	admin         authz.Actor
	support       authz.Actor
}

func actor(t *testing.T, userID uint, role models.UserRole, profileID *uint) authz.Actor {
	t.Helper()
	a, err := authz.New(userID, role, profileID)
	require.NoError(t, err)
	return a
}

func newCast(t *testing.T, f dbtest.Fixtures) cast {
	return cast{
		customer:      actor(t, f.CustomerUser.ID, models.RoleCustomer, &f.Customer.ID),
		otherCustomer: actor(t, f.OtherCust.UserID, models.RoleCustomer, &f.OtherCust.ID),
		kitchen:       actor(t, f.KitchenUser.ID, models.RoleKitchen, &f.Kitchen.ID),
		otherKitchen:  actor(t, f.OtherKitchen.UserID, models.RoleKitchen, &f.OtherKitchen.ID),
		courier:       actor(t, f.CourierUser.ID, models.RoleCourier, &f.Courier.ID),
		otherCourier:  actor(t, f.OtherCourier.UserID, models.RoleCourier, &f.OtherCourier.ID),
		admin:         actor(t, f.Admin.ID, models.RoleAdmin, nil),
		support:       actor(t, f.Support.ID, models.RoleSupport, nil),
	}
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

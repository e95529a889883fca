package models_test

import (
	"testing"

	"mocardapio-api/models"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus(t *testing.T) {
	for _, s := range models.Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, models.OrderStatus("PICKED_UP").Valid())

	assert.True(t, models.StatusDelivered.Terminal())
	assert.True(t, models.StatusCancelled.Terminal())
	assert.False(t, models.StatusReady.Terminal())
}

func TestUserRole(t *testing.T) {
	assert.True(t, models.RoleSupport.Valid())
	assert.False(t, models.UserRole("driver").Valid())

	assert.True(t, models.RoleCourier.HasProfile())
	assert.False(t, models.RoleAdmin.HasProfile())
	assert.False(t, models.RoleSupport.HasProfile())
}

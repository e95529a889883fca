package statemachine_test

import (
	"testing"

	"mocardapio-api/apperr"
	"mocardapio-api/models"
	"mocardapio-api/statemachine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allowed is the expected table, independent of the implementation's slice.
var allowed = map[models.UserRole]map[models.OrderStatus][]models.OrderStatus{
	models.RoleKitchen: {
		models.StatusPending:   {models.StatusAccepted, models.StatusCancelled},
		models.StatusAccepted:  {models.StatusPreparing, models.StatusCancelled},
		models.StatusPreparing: {models.StatusReady, models.StatusCancelled},
	},
	models.RoleCourier: {
		models.StatusReady:      {models.StatusDelivering},
		models.StatusDelivering: {models.StatusDelivered},
	},
}

func contains(list []models.OrderStatus, s models.OrderStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestCanTransition_EveryTriple(t *testing.T) {
	for _, role := range models.Roles {
		for _, from := range models.Statuses {
			for _, to := range models.Statuses {
				err := statemachine.CanTransition(from, to, role)

				want := role == models.RoleAdmin || contains(allowed[role][from], to)
				if want {
					assert.NoError(t, err, "%s: %s → %s", role, from, to)
					continue
				}
				var te *apperr.TransitionError
				if assert.ErrorAs(t, err, &te, "%s: %s → %s", role, from, to) {
					assert.Equal(t, string(from), te.From)
					assert.Equal(t, string(to), te.To)
					assert.Equal(t, string(role), te.Role)
				}
			}
		}
	}
}

func TestCanTransition_KitchenCannotDeliver(t *testing.T) {
	err := statemachine.CanTransition(models.StatusPreparing, models.StatusDelivered, models.RoleKitchen)
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "preparing → delivered")
}

func TestCanTransition_TerminalStatesHaveNoExit(t *testing.T) {
	for _, role := range []models.UserRole{models.RoleKitchen, models.RoleCourier, models.RoleCustomer} {
		assert.Empty(t, statemachine.ValidTransitionsFrom(models.StatusDelivered, role))
		assert.Empty(t, statemachine.ValidTransitionsFrom(models.StatusCancelled, role))
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	err := statemachine.CanTransition(models.StatusPending, "teleported", models.RoleAdmin)
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestIsClaim(t *testing.T) {
	assert.True(t, statemachine.IsClaim(models.StatusReady, models.StatusDelivering, models.RoleCourier))
	assert.False(t, statemachine.IsClaim(models.StatusDelivering, models.StatusDelivered, models.RoleCourier))
	assert.False(t, statemachine.IsClaim(models.StatusReady, models.StatusDelivering, models.RoleAdmin))
}

func TestValidTransitionsFrom(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.OrderStatus{models.StatusAccepted, models.StatusCancelled},
		statemachine.ValidTransitionsFrom(models.StatusPending, models.RoleKitchen))
	assert.Empty(t, statemachine.ValidTransitionsFrom(models.StatusPending, models.RoleCustomer))
	assert.Len(t, statemachine.ValidTransitionsFrom(models.StatusPending, models.RoleAdmin), len(models.Statuses)-1)
}

func TestGetAllTransitionsIsACopy(t *testing.T) {
	all := statemachine.GetAllTransitions()
	all[0].To = models.StatusDelivered

	assert.NoError(t, statemachine.CanTransition(models.StatusPending, models.StatusAccepted, models.RoleKitchen))
}

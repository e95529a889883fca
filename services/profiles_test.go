package services_test

import (
	"context"
	"testing"

	"mocardapio-api/apperr"
	"mocardapio-api/dbtest"
	"mocardapio-api/models"
	"mocardapio-api/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestProfile_GetAndUpdate(t *testing.T) {
	db := dbtest.New(t)
	f := dbtest.Seed(t, db)
	svc := services.NewProfileService(db)
	c := newCast(t, f)
	ctx := context.Background()

	acc, err := svc.Get(ctx, c.kitchen)
	require.NoError(t, err)
	assert.Equal(t, f.KitchenUser.ID, acc.User.ID)
	require.IsType(t, &models.KitchenProfile{}, acc.Profile)

	acc, err = svc.Update(ctx, c.kitchen, services.ProfileUpdate{
		Name:        strp("Dona Vó"),
		KitchenName: strp("Cozinha Nova"),
		Vehicle:     strp("ignored for kitchens"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Dona Vó", acc.User.Name)
	k := acc.Profile.(*models.KitchenProfile)
	assert.Equal(t, "Cozinha Nova", k.Name)
	assert.Equal(t, "Centro", k.Location)

	_, err = svc.Update(ctx, c.customer, services.ProfileUpdate{Address: strp("  ")})
	require.ErrorIs(t, err, apperr.ErrValidation)

	acc, err = svc.Get(ctx, c.admin)
	require.NoError(t, err)
	assert.Nil(t, acc.Profile)
}

func TestProfile_Missing(t *testing.T) {
	db := dbtest.New(t)
	u := dbtest.User(t, db, "lost@test.io", models.RoleCourier)
	svc := services.NewProfileService(db)

	_, err := svc.Get(context.Background(), actor(t, u.ID, models.RoleCourier, nil))
	require.ErrorIs(t, err, apperr.ErrProfileMissing)
	assert.Equal(t, "profile_missing", apperr.Code(err))
}

func TestCourierAvailability(t *testing.T) {
	db := dbtest.New(t)
	f := dbtest.Seed(t, db)
	svc := services.NewProfileService(db)
	c := newCast(t, f)

	p, err := svc.SetCourierAvailability(context.Background(), c.courier, false)
	require.NoError(t, err)
	assert.False(t, p.IsAvailable)

	_, err = svc.SetCourierAvailability(context.Background(), c.kitchen, false)
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestMessages(t *testing.T) {
	db := dbtest.New(t)
	f := dbtest.Seed(t, db)
	svc := services.NewMessageService(db)
	c := newCast(t, f)
	ctx := context.Background()

	_, err := svc.Send(ctx, c.customer, services.MessageInput{ReceiverID: f.Support.ID, Content: "cadê meu pedido?"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, c.support, services.MessageInput{ReceiverID: f.CustomerUser.ID, Content: "a caminho"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, c.kitchen, services.MessageInput{ReceiverID: f.Support.ID, Content: "sem gás"})
	require.NoError(t, err)

	inbox, err := svc.List(ctx, c.support, services.MessageFilter{})
	require.NoError(t, err)
	assert.Len(t, inbox, 3)

	thread, err := svc.List(ctx, c.support, services.MessageFilter{With: f.CustomerUser.ID})
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "cadê meu pedido?", thread[0].Content)
	assert.Equal(t, "a caminho", thread[1].Content)

	_, err = svc.Send(ctx, c.customer, services.MessageInput{ReceiverID: 9999, Content: "oi"})
	require.ErrorIs(t, err, apperr.ErrUserNotFound)

	_, err = svc.Send(ctx, c.customer, services.MessageInput{ReceiverID: f.CustomerUser.ID, Content: "eu"})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Send(ctx, c.customer, services.MessageInput{ReceiverID: f.Support.ID, Content: "   "})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestListUsers(t *testing.T) {
	db := dbtest.New(t)
	dbtest.Seed(t, db)
	svc := services.NewProfileService(db)

	all, err := svc.ListUsers(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 8)

	couriers, err := svc.ListUsers(context.Background(), models.RoleCourier)
	require.NoError(t, err)
	assert.Len(t, couriers, 2)

	_, err = svc.ListUsers(context.Background(), "driver")
	require.ErrorIs(t, err, apperr.ErrValidation)
}

package authz

import (
	"context"
	"errors"
	"fmt"

	"mocardapio-api/apperr"
	"mocardapio-api/models"

	"gorm.io/gorm"
)

// Resolver turns validated token claims into an Actor by loading the user and
// the profile matching the user's stored role.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve loads userID. The role stored on the user wins over the token's:
// a token minted before a role change must not keep the old privileges.
func (r *Resolver) Resolve(ctx context.Context, userID uint) (Actor, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d no longer exists", apperr.ErrUnauthenticated, userID)
		}
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}

	profileID, err := LookupProfileID(ctx, r.db, user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return New(user.ID, user.Role, profileID)
}

// LookupProfileID returns the id of userID's profile for role, or nil when the
// role has no profile table or the row is absent.
func LookupProfileID(ctx context.Context, db *gorm.DB, userID uint, role models.UserRole) (*uint, error) {
	var model any
	switch role {
	case models.RoleCustomer:
		model = &models.CustomerProfile{}
	case models.RoleKitchen:
		model = &models.KitchenProfile{}
	case models.RoleCourier:
		model = &models.CourierProfile{}
	default:
		return nil, nil
	}

	var ids []uint
	if err := db.WithContext(ctx).Model(model).Where("user_id = ?", userID).Limit(1).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("load %s profile: %w", role, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return &ids[0], nil
}

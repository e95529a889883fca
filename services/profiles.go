package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mocardapio-api/apperr"
	"mocardapio-api/authz"
	"mocardapio-api/models"

	"gorm.io/gorm"
)

// ProfileUpdate carries the editable fields. Nil fields are left alone; fields
// that do not apply to the caller's role are ignored.
type ProfileUpdate struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=120"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	KitchenName *string `json:"kitchen_name"`
	Location    *string `json:"location"`
	Specialty   *string `json:"specialty"`
	Vehicle     *string `json:"vehicle"`
}

type Availability struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// Get returns the caller's user row and role profile.
func (s *ProfileService) Get(ctx context.Context, a authz.Actor) (*Account, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, a.UserID()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	profile, err := loadProfile(ctx, s.db, &user)
	if err != nil {
		return nil, err
	}
	if profile == nil && user.Role.HasProfile() {
		return nil, apperr.ErrProfileMissing
	}
	return &Account{User: &user, Profile: profile}, nil
}

// Update applies in to the caller's user and profile in one transaction.
func (s *ProfileService) Update(ctx context.Context, a authz.Actor, in ProfileUpdate) (*Account, error) {
	profileID, err := a.ProfileID()
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Name != nil {
			if err := tx.Model(&models.User{}).Where("id = ?", a.UserID()).Update("name", strings.TrimSpace(*in.Name)).Error; err != nil {
				return fmt.Errorf("update user: %w", err)
			}
		}

		var model any
		changes := map[string]any{}
		set := func(col string, v *string) error {
			if v == nil {
				return nil
			}
			if strings.TrimSpace(*v) == "" && col != "phone" {
				return apperr.Invalid(col, "cannot be blank")
			}
			changes[col] = strings.TrimSpace(*v)
			return nil
		}

		var errs []error
		switch a.Role() {
		case models.RoleCustomer:
			model = &models.CustomerProfile{}
			errs = append(errs, set("address", in.Address), set("phone", in.Phone))
		case models.RoleKitchen:
			model = &models.KitchenProfile{}
			errs = append(errs, set("name", in.KitchenName), set("location", in.Location), set("specialty", in.Specialty), set("phone", in.Phone))
		case models.RoleCourier:
			model = &models.CourierProfile{}
			errs = append(errs, set("vehicle", in.Vehicle), set("phone", in.Phone))
		default:
			return nil
		}
		if err := errors.Join(errs...); err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(model).Where("id = ?", profileID).Updates(changes).Error; err != nil {
			return fmt.Errorf("update %s profile: %w", a.Role(), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, a)
}

// SetCourierAvailability toggles whether the calling courier is taking deliveries.
func (s *ProfileService) SetCourierAvailability(ctx context.Context, a authz.Actor, available bool) (*models.CourierProfile, error) {
	if a.Role() != models.RoleCourier {
		return nil, apperr.Forbidden("only couriers have delivery availability")
	}
	id, err := a.ProfileID()
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := db.Model(&models.CourierProfile{}).Where("id = ?", id).Update("is_available", available).Error; err != nil {
		return nil, fmt.Errorf("update courier availability: %w", err)
	}
	var p models.CourierProfile
	if err := db.First(&p, id).Error; err != nil {
		return nil, fmt.Errorf("reload courier: %w", err)
	}
	return &p, nil
}

// loadProfile returns the role profile of user, or nil when the role has none
// or the row is absent.
func loadProfile(ctx context.Context, db *gorm.DB, user *models.User) (any, error) {
	var profile any
	switch user.Role {
	case models.RoleCustomer:
		profile = &models.CustomerProfile{}
	case models.RoleKitchen:
		profile = &models.KitchenProfile{}
	case models.RoleCourier:
		profile = &models.CourierProfile{}
	default:
		return nil, nil
	}
	err := db.WithContext(ctx).Where("user_id = ?", user.ID).First(profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s profile: %w", user.Role, err)
	}
	return profile, nil
}

// ListUsers is the admin view of accounts, optionally narrowed to one role.
func (s *ProfileService) ListUsers(ctx context.Context, role models.UserRole) ([]models.User, error) {
	q := s.db.WithContext(ctx).Order("id")
	if role != "" {
		if !role.Valid() {
			return nil, apperr.Invalid("role", "unknown role "+string(role))
		}
		q = q.Where("role = ?", role)
	}
	users := []models.User{}
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

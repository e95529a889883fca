// Package authz resolves an authenticated identity into a role-specific Actor
// and answers what that actor may see and change.
//
// Each role is its own type, built once per request by a Resolver, so callers
// ask the actor instead of switching on the role string.
package authz

import (
	"mocardapio-api/apperr"
	"mocardapio-api/models"
	"mocardapio-api/statemachine"

	"gorm.io/gorm"
)

// Actor is the authenticated caller.
type Actor interface {
	UserID() uint
	Role() models.UserRole
	// ProfileID returns the role profile id, or apperr.ErrProfileMissing for a
	// role that should have a profile but does not.
	ProfileID() (uint, error)
	// Scope narrows an order query to the rows this actor may see.
	Scope(db *gorm.DB) (*gorm.DB, error)
	// CanView reports whether the order detail is visible to this actor.
	CanView(o *models.Order) bool
	// CheckOwnership fails with Forbidden when the actor may not act on o.
	CheckOwnership(o *models.Order) error
}

type identity struct {
	userID    uint
	profileID *uint
}

func (i identity) UserID() uint { return i.userID }

func (i identity) ProfileID() (uint, error) {
	if i.profileID == nil {
		return 0, apperr.ErrProfileMissing
	}
	return *i.profileID, nil
}

// owns reports whether id is this actor's profile. A missing profile owns nothing.
func (i identity) owns(id uint) bool {
	return i.profileID != nil && *i.profileID == id
}

type Customer struct{ identity }

func (Customer) Role() models.UserRole { return models.RoleCustomer }

func (c Customer) Scope(db *gorm.DB) (*gorm.DB, error) {
	id, err := c.ProfileID()
	if err != nil {
		return nil, err
	}
	return db.Where("orders.customer_id = ?", id), nil
}

func (c Customer) CanView(o *models.Order) bool { return c.owns(o.CustomerID) }

func (c Customer) CheckOwnership(o *models.Order) error {
	if !c.owns(o.CustomerID) {
		return apperr.Forbidden("order does not belong to this customer")
	}
	return nil
}

type Kitchen struct{ identity }

func (Kitchen) Role() models.UserRole { return models.RoleKitchen }

func (k Kitchen) Scope(db *gorm.DB) (*gorm.DB, error) {
	id, err := k.ProfileID()
	if err != nil {
		return nil, err
	}
	return db.Where("orders.kitchen_id = ?", id), nil
}

func (k Kitchen) CanView(o *models.Order) bool { return k.owns(o.KitchenID) }

func (k Kitchen) CheckOwnership(o *models.Order) error {
	if !k.owns(o.KitchenID) {
		return apperr.Forbidden("order does not belong to this kitchen")
	}
	return nil
}

// OwnsDish reports whether the dish is on this kitchen's menu.
func (k Kitchen) OwnsDish(d *models.Dish) bool { return k.owns(d.KitchenID) }

type Courier struct{ identity }

func (Courier) Role() models.UserRole { return models.RoleCourier }

func (c Courier) Scope(db *gorm.DB) (*gorm.DB, error) {
	id, err := c.ProfileID()
	if err != nil {
		return nil, err
	}
	group := db.Session(&gorm.Session{NewDB: true})
	return db.Where(
		group.Where("orders.status = ? AND orders.courier_id IS NULL", models.StatusReady).
			Or("orders.courier_id = ?", id),
	), nil
}

func (c Courier) CanView(o *models.Order) bool {
	if o.CourierID == nil {
		return o.Status == models.StatusReady && c.profileID != nil
	}
	return c.owns(*o.CourierID)
}

// CheckOwnership lets a courier act on its own deliveries and on claimable
// orders. It agrees with CanView, so unseen orders are Forbidden.
func (c Courier) CheckOwnership(o *models.Order) error {
	if o.CourierID == nil {
		if c.profileID == nil {
			return apperr.ErrProfileMissing
		}
		if o.Status != models.StatusReady {
			return apperr.Forbidden("order is not open for delivery")
		}
		return nil
	}
	if !c.owns(*o.CourierID) {
		return apperr.Forbidden("order is assigned to another courier")
	}
	return nil
}

type Admin struct{ identity }

func (Admin) Role() models.UserRole { return models.RoleAdmin }

func (Admin) ProfileID() (uint, error) { return 0, nil }

func (Admin) Scope(db *gorm.DB) (*gorm.DB, error) { return db, nil }

func (Admin) CanView(*models.Order) bool { return true }

func (Admin) CheckOwnership(*models.Order) error { return nil }

// Support accounts exist for the messaging surface and see no orders.
type Support struct{ identity }

func (Support) Role() models.UserRole { return models.RoleSupport }

func (Support) ProfileID() (uint, error) { return 0, nil }

func (Support) Scope(*gorm.DB) (*gorm.DB, error) {
	return nil, apperr.Forbidden("support accounts cannot list orders")
}

func (Support) CanView(*models.Order) bool { return false }

func (Support) CheckOwnership(*models.Order) error {
	return apperr.Forbidden("support accounts cannot change orders")
}

// New builds the actor for role. profileID is nil when no profile row exists.
func New(userID uint, role models.UserRole, profileID *uint) (Actor, error) {
	id := identity{userID: userID, profileID: profileID}
	switch role {
	case models.RoleCustomer:
		return Customer{id}, nil
	case models.RoleKitchen:
		return Kitchen{id}, nil
	case models.RoleCourier:
		return Courier{id}, nil
	case models.RoleAdmin:
		return Admin{id}, nil
	case models.RoleSupport:
		return Support{id}, nil
	default:
		return nil, apperr.ErrUnauthenticated
	}
}

// VisibilityFilter narrows an order listing query for a.
func VisibilityFilter(db *gorm.DB, a Actor) (*gorm.DB, error) {
	return a.Scope(db)
}

// AllowedTargets lists the statuses a may request for o.
func AllowedTargets(a Actor, o *models.Order) []models.OrderStatus {
	if a.CheckOwnership(o) != nil {
		return nil
	}
	return statemachine.ValidTransitionsFrom(o.Status, a.Role())
}

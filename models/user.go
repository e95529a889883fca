package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleKitchen  UserRole = "kitchen"
	RoleCourier  UserRole = "courier"
	RoleAdmin    UserRole = "admin"
	RoleSupport  UserRole = "support"
)

// Roles lists every role in a stable order.
var Roles = []UserRole{RoleCustomer, RoleKitchen, RoleCourier, RoleAdmin, RoleSupport}

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// HasProfile reports whether users of this role own a profile row.
func (r UserRole) HasProfile() bool {
	return r == RoleCustomer || r == RoleKitchen || r == RoleCourier
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"not null;default:'customer';index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

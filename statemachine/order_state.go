package statemachine

import (
	"mocardapio-api/apperr"
	"mocardapio-api/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor models.UserRole    `json:"actor"`
	Claim bool               `json:"claim,omitempty"`
}

// validTransitions is the authoritative state machine definition.
// Admin is absent on purpose: it may set any status.
var validTransitions = []Transition{
	{From: models.StatusPending, To: models.StatusAccepted, Actor: models.RoleKitchen},
	{From: models.StatusAccepted, To: models.StatusPreparing, Actor: models.RoleKitchen},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: models.RoleKitchen},

	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RoleKitchen},
	{From: models.StatusAccepted, To: models.StatusCancelled, Actor: models.RoleKitchen},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: models.RoleKitchen},

	// Courier claims an unassigned ready order
	{From: models.StatusReady, To: models.StatusDelivering, Actor: models.RoleCourier, Claim: true},
	// Assigned courier delivers
	{From: models.StatusDelivering, To: models.StatusDelivered, Actor: models.RoleCourier},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

var transitionMap = func() map[transitionKey]Transition {
	m := make(map[transitionKey]Transition, len(validTransitions))
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = t
	}
	return m
}()

// ValidTransitionsFrom returns the statuses role may move an order to from status.
func ValidTransitionsFrom(status models.OrderStatus, role models.UserRole) []models.OrderStatus {
	if role == models.RoleAdmin {
		nexts := make([]models.OrderStatus, 0, len(models.Statuses))
		for _, s := range models.Statuses {
			if s != status {
				nexts = append(nexts, s)
			}
		}
		return nexts
	}
	var nexts []models.OrderStatus
	for _, t := range validTransitions {
		if t.From == status && t.Actor == role {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// CanTransition checks whether role may move an order from one status to another.
// The error is an *apperr.TransitionError naming both statuses.
func CanTransition(from, to models.OrderStatus, role models.UserRole) error {
	if !to.Valid() {
		return apperr.Invalid("status", "unknown status "+string(to))
	}
	if role == models.RoleAdmin {
		return nil
	}
	if _, ok := transitionMap[transitionKey{from, to, role}]; ok {
		return nil
	}
	return &apperr.TransitionError{From: string(from), To: string(to), Role: string(role)}
}

// IsClaim reports whether from → to by role is the courier claim, which must run as
// a conditional update that also assigns the courier.
func IsClaim(from, to models.OrderStatus, role models.UserRole) bool {
	t, ok := transitionMap[transitionKey{from, to, role}]
	return ok && t.Claim
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	out := make([]Transition, len(validTransitions))
	copy(out, validTransitions)
	return out
}

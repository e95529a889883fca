// Package services holds the use cases behind the HTTP handlers. Each service
// takes its store handle in its constructor and every method takes the
// request context and the resolved authz.Actor.
package services

import (
	"context"
	"errors"
	"fmt"

	"mocardapio-api/apperr"
	"mocardapio-api/authz"
	"mocardapio-api/metrics"
	"mocardapio-api/models"
	"mocardapio-api/pricing"
	"mocardapio-api/statemachine"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateOrderInput struct {
	KitchenID uint           `json:"kitchen_id" binding:"required"`
	Items     []pricing.Line `json:"items" binding:"dive"`
}

type StatusChange struct {
	Status models.OrderStatus `json:"status" binding:"required,order_status"`
	Note   string             `json:"note" binding:"max=500"`
}

type ListFilter struct {
	Status models.OrderStatus `form:"status"`
}

// OrderSummary is the admin dashboard: order counts per status and the
// revenue of delivered orders.
type OrderSummary struct {
	Counts  map[models.OrderStatus]int64 `json:"counts"`
	Total   int64                        `json:"total"`
	Revenue decimal.Decimal              `json:"revenue"`
}

type OrderService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

func NewOrderService(db *gorm.DB, m *metrics.Metrics) *OrderService {
	return &OrderService{db: db, metrics: m}
}

// Create places a pending order for the calling customer. Pricing, the order,
// its items and the first history row commit together or not at all.
func (s *OrderService) Create(ctx context.Context, a authz.Actor, in CreateOrderInput) (*models.Order, error) {
	if a.Role() != models.RoleCustomer {
		return nil, apperr.Forbidden("only customers can place orders")
	}
	customerID, err := a.ProfileID()
	if err != nil {
		return nil, err
	}

	var orderID uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var kitchen models.KitchenProfile
		if err := tx.First(&kitchen, in.KitchenID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %d", apperr.ErrKitchenNotFound, in.KitchenID)
			}
			return fmt.Errorf("load kitchen: %w", err)
		}
		if !kitchen.IsAvailable {
			return fmt.Errorf("%w: %s", apperr.ErrKitchenUnavailable, kitchen.Name)
		}

		quote, err := pricing.ComputeOrder(ctx, tx, kitchen.ID, in.Items)
		if err != nil {
			return err
		}

		order := models.Order{
			CustomerID: customerID,
			KitchenID:  kitchen.ID,
			Status:     models.StatusPending,
			Total:      quote.Total,
			Items:      quote.Items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		orderID = order.ID
		return recordHistory(tx, order.ID, "", models.StatusPending, a, "order placed")
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveCreated()
	return s.load(ctx, orderID)
}

// List returns the orders a may see, newest first.
func (s *OrderService) List(ctx context.Context, a authz.Actor, f ListFilter) ([]models.Order, error) {
	q, err := authz.VisibilityFilter(s.db.WithContext(ctx).Model(&models.Order{}), a)
	if err != nil {
		return nil, err
	}
	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, apperr.Invalid("status", "unknown status "+string(f.Status))
		}
		q = q.Where("orders.status = ?", f.Status)
	}

	orders := []models.Order{}
	err = q.Preload("Items").Preload("Kitchen").Preload("Courier").
		Order("orders.created_at desc, orders.id desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Get returns one order with items and history, if a may see it.
func (s *OrderService) Get(ctx context.Context, a authz.Actor, id uint) (*models.Order, error) {
	if _, err := a.ProfileID(); err != nil {
		return nil, err
	}
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.CanView(order) {
		return nil, apperr.Forbidden("order is not visible to this account")
	}
	return order, nil
}

// UpdateStatus moves an order to in.Status on behalf of a. Ownership is checked
// before the transition table. A courier asking for ready → delivering on an
// unassigned order goes through the claim.
func (s *OrderService) UpdateStatus(ctx context.Context, a authz.Actor, id uint, in StatusChange) (*models.Order, error) {
	if _, err := a.ProfileID(); err != nil {
		return nil, err
	}
	if !in.Status.Valid() {
		return nil, apperr.Invalid("status", "unknown status "+string(in.Status))
	}

	var from models.OrderStatus
	var claimed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := findOrder(tx, id)
		if err != nil {
			return err
		}
		if err := a.CheckOwnership(order); err != nil {
			return err
		}
		from = order.Status

		if statemachine.IsClaim(order.Status, in.Status, a.Role()) {
			claimed = true
			return claim(tx, a, order, in.Note)
		}
		if err := statemachine.CanTransition(order.Status, in.Status, a.Role()); err != nil {
			return err
		}
		if order.Status == in.Status {
			return transitionError(order.Status, in.Status, a)
		}
		return compareAndSet(tx, a, order, in.Status, in.Note)
	})
	if claimed {
		s.observeClaim(err)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveTransition(string(from), string(in.Status), string(a.Role()))
	return s.load(ctx, id)
}

// Claim assigns a ready, unassigned order to the calling courier and moves it
// to delivering. Of any number of concurrent claims exactly one succeeds; the
// rest get apperr.ErrOrderAlreadyClaimed.
func (s *OrderService) Claim(ctx context.Context, a authz.Actor, id uint, note string) (*models.Order, error) {
	if a.Role() != models.RoleCourier {
		return nil, apperr.Forbidden("only couriers can accept deliveries")
	}
	if _, err := a.ProfileID(); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := findOrder(tx, id)
		if err != nil {
			return err
		}
		return claim(tx, a, order, note)
	})
	s.observeClaim(err)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveTransition(string(models.StatusReady), string(models.StatusDelivering), string(a.Role()))
	return s.load(ctx, id)
}

// Summary counts orders per status for the admin dashboard.
func (s *OrderService) Summary(ctx context.Context) (OrderSummary, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Order{}).Select("status, count(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return OrderSummary{}, fmt.Errorf("summarize orders: %w", err)
	}

	var totals []decimal.Decimal
	if err := db.Model(&models.Order{}).Where("status = ?", models.StatusDelivered).Pluck("total", &totals).Error; err != nil {
		return OrderSummary{}, fmt.Errorf("sum revenue: %w", err)
	}

	sum := OrderSummary{Counts: make(map[models.OrderStatus]int64, len(models.Statuses)), Revenue: decimal.Sum(decimal.Zero, totals...)}
	for _, st := range models.Statuses {
		sum.Counts[st] = 0
	}
	for _, r := range rows {
		sum.Counts[r.Status] = r.Count
		sum.Total += r.Count
	}
	return sum, nil
}

func (s *OrderService) observeClaim(err error) {
	switch {
	case err == nil:
		s.metrics.ObserveClaim(metrics.ClaimWon)
	case errors.Is(err, apperr.ErrOrderAlreadyClaimed):
		s.metrics.ObserveClaim(metrics.ClaimConflict)
	default:
		s.metrics.ObserveClaim(metrics.ClaimRejected)
	}
}

func (s *OrderService) load(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Kitchen").
		Preload("Customer").
		Preload("Courier").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", apperr.ErrOrderNotFound, id)
		}
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	return &order, nil
}

// findOrder reads the order inside tx. No row lock is taken: every write that
// follows is conditional on the status read here.
func findOrder(tx *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := tx.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", apperr.ErrOrderNotFound, id)
		}
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	return &order, nil
}

func claim(tx *gorm.DB, a authz.Actor, order *models.Order, note string) error {
	if order.CourierID != nil {
		return apperr.ErrOrderAlreadyClaimed
	}
	if order.Status != models.StatusReady {
		return transitionError(order.Status, models.StatusDelivering, a)
	}
	courierID, err := a.ProfileID()
	if err != nil {
		return err
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ? AND courier_id IS NULL", order.ID, models.StatusReady).
		Updates(map[string]any{"courier_id": courierID, "status": models.StatusDelivering})
	if res.Error != nil {
		return fmt.Errorf("claim order %d: %w", order.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrOrderAlreadyClaimed
	}

	if note == "" {
		note = "delivery accepted"
	}
	return recordHistory(tx, order.ID, models.StatusReady, models.StatusDelivering, a, note)
}

// compareAndSet writes to only if the row still holds the status read earlier.
// Losing a concurrent write reports the status that won.
func compareAndSet(tx *gorm.DB, a authz.Actor, order *models.Order, to models.OrderStatus, note string) error {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("update order %d: %w", order.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		var current []models.OrderStatus
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Pluck("status", &current).Error; err != nil {
			return fmt.Errorf("reload order %d: %w", order.ID, err)
		}
		if len(current) == 0 {
			return fmt.Errorf("%w: %d", apperr.ErrOrderNotFound, order.ID)
		}
		return transitionError(current[0], to, a)
	}
	return recordHistory(tx, order.ID, order.Status, to, a, note)
}

func recordHistory(tx *gorm.DB, orderID uint, from, to models.OrderStatus, a authz.Actor, note string) error {
	h := models.OrderStatusHistory{
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  a.UserID(),
		Role:       a.Role(),
		Note:       note,
	}
	if err := tx.Create(&h).Error; err != nil {
		return fmt.Errorf("record status history: %w", err)
	}
	return nil
}

func transitionError(from, to models.OrderStatus, a authz.Actor) error {
	return &apperr.TransitionError{From: string(from), To: string(to), Role: string(a.Role())}
}

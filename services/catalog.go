package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"mocardapio-api/apperr"
	"mocardapio-api/authz"
	"mocardapio-api/models"
	"mocardapio-api/pricing"
	"mocardapio-api/storage"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DishInput struct {
	Name        string          `json:"name" binding:"required,max=120"`
	Description string          `json:"description" binding:"max=1000"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url" binding:"omitempty,url"`
}

// DishUpdate is a partial update; nil fields keep their value.
type DishUpdate struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=120"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url" binding:"omitempty,url"`
	IsAvailable *bool            `json:"is_available"`
}

type DishFilter struct {
	KitchenID uint   `form:"kitchen_id"`
	Search    string `form:"q"`
}

type CatalogService struct {
	db    *gorm.DB
	store storage.Store
}

func NewCatalogService(db *gorm.DB, store storage.Store) *CatalogService {
	return &CatalogService{db: db, store: store}
}

// ListKitchens returns the kitchens currently taking orders.
func (s *CatalogService) ListKitchens(ctx context.Context) ([]models.KitchenProfile, error) {
	kitchens := []models.KitchenProfile{}
	err := s.db.WithContext(ctx).Where("is_available = ?", true).Order("name").Find(&kitchens).Error
	if err != nil {
		return nil, fmt.Errorf("list kitchens: %w", err)
	}
	return kitchens, nil
}

// ListDishes is the public menu: available dishes of available kitchens.
func (s *CatalogService) ListDishes(ctx context.Context, f DishFilter) ([]models.Dish, error) {
	q := s.db.WithContext(ctx).
		Joins("JOIN kitchen_profiles ON kitchen_profiles.id = dishes.kitchen_id").
		Where("dishes.is_available = ? AND kitchen_profiles.is_available = ?", true, true).
		Preload("Kitchen")
	if f.KitchenID != 0 {
		q = q.Where("dishes.kitchen_id = ?", f.KitchenID)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(dishes.name) LIKE ? OR LOWER(dishes.description) LIKE ?", like, like)
	}

	dishes := []models.Dish{}
	if err := q.Order("dishes.name").Find(&dishes).Error; err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	return dishes, nil
}

// KitchenMenu is the public menu of one kitchen.
func (s *CatalogService) KitchenMenu(ctx context.Context, kitchenID uint) ([]models.Dish, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.KitchenProfile{}).Where("id = ?", kitchenID).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("load kitchen: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %d", apperr.ErrKitchenNotFound, kitchenID)
	}
	return s.ListDishes(ctx, DishFilter{KitchenID: kitchenID})
}

// MyDishes is the owning kitchen's view: every dish, optionally filtered by availability.
func (s *CatalogService) MyDishes(ctx context.Context, a authz.Actor, available *bool) ([]models.Dish, error) {
	kitchenID, err := kitchenOf(a)
	if err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Where("kitchen_id = ?", kitchenID)
	if available != nil {
		q = q.Where("is_available = ?", *available)
	}
	dishes := []models.Dish{}
	if err := q.Order("name").Find(&dishes).Error; err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	return dishes, nil
}

func (s *CatalogService) CreateDish(ctx context.Context, a authz.Actor, in DishInput) (*models.Dish, error) {
	kitchenID, err := kitchenOf(a)
	if err != nil {
		return nil, err
	}
	if err := validPrice(in.Price); err != nil {
		return nil, err
	}

	dish := models.Dish{
		KitchenID:   kitchenID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		IsAvailable: true,
	}
	if err := s.db.WithContext(ctx).Create(&dish).Error; err != nil {
		return nil, fmt.Errorf("create dish: %w", err)
	}
	return &dish, nil
}

func (s *CatalogService) UpdateDish(ctx context.Context, a authz.Actor, id uint, in DishUpdate) (*models.Dish, error) {
	changes := map[string]any{}
	if in.Name != nil {
		changes["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		changes["description"] = *in.Description
	}
	if in.Price != nil {
		if err := validPrice(*in.Price); err != nil {
			return nil, err
		}
		changes["price"] = *in.Price
	}
	if in.ImageURL != nil {
		changes["image_url"] = *in.ImageURL
	}
	if in.IsAvailable != nil {
		changes["is_available"] = *in.IsAvailable
	}
	return s.changeDish(ctx, a, id, changes)
}

func (s *CatalogService) SetDishAvailability(ctx context.Context, a authz.Actor, id uint, available bool) (*models.Dish, error) {
	return s.changeDish(ctx, a, id, map[string]any{"is_available": available})
}

// DeleteDish takes the dish off the menu. Rows are kept for order history.
func (s *CatalogService) DeleteDish(ctx context.Context, a authz.Actor, id uint) error {
	_, err := s.changeDish(ctx, a, id, map[string]any{"is_available": false})
	return err
}

// SetDishImage stores r in the blob store and points the dish at it.
func (s *CatalogService) SetDishImage(ctx context.Context, a authz.Actor, id uint, r io.Reader) (*models.Dish, error) {
	if _, err := s.ownedDish(ctx, s.db, a, id); err != nil {
		return nil, err
	}
	blob, err := storage.UploadImage(ctx, s.store, "dishes", r)
	if err != nil {
		return nil, err
	}
	dish, err := s.changeDish(ctx, a, id, map[string]any{"image_url": blob.URL})
	if err != nil {
		// nothing points at the blob yet
		if delErr := s.store.Delete(ctx, blob.PublicID); delErr != nil {
			return nil, errors.Join(err, fmt.Errorf("remove unused image: %w", delErr))
		}
		return nil, err
	}
	return dish, nil
}

// Upload stores an image for later use by any authenticated user.
func (s *CatalogService) Upload(ctx context.Context, r io.Reader) (storage.Blob, error) {
	return storage.UploadImage(ctx, s.store, "uploads", r)
}

// SetKitchenAvailability opens or closes the calling kitchen.
func (s *CatalogService) SetKitchenAvailability(ctx context.Context, a authz.Actor, available bool) (*models.KitchenProfile, error) {
	kitchenID, err := kitchenOf(a)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.KitchenProfile{}).Where("id = ?", kitchenID).Update("is_available", available).Error; err != nil {
		return nil, fmt.Errorf("update kitchen availability: %w", err)
	}
	var k models.KitchenProfile
	if err := db.First(&k, kitchenID).Error; err != nil {
		return nil, fmt.Errorf("reload kitchen: %w", err)
	}
	return &k, nil
}

func (s *CatalogService) changeDish(ctx context.Context, a authz.Actor, id uint, changes map[string]any) (*models.Dish, error) {
	var dish *models.Dish
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d, err := s.ownedDish(ctx, tx, a, id)
		if err != nil {
			return err
		}
		if len(changes) > 0 {
			if err := tx.Model(d).Updates(changes).Error; err != nil {
				return fmt.Errorf("update dish %d: %w", id, err)
			}
		}
		if err := tx.First(d, id).Error; err != nil {
			return fmt.Errorf("reload dish %d: %w", id, err)
		}
		dish = d
		return nil
	})
	return dish, err
}

func (s *CatalogService) ownedDish(ctx context.Context, db *gorm.DB, a authz.Actor, id uint) (*models.Dish, error) {
	if _, err := kitchenOf(a); err != nil {
		return nil, err
	}
	var dish models.Dish
	if err := db.WithContext(ctx).First(&dish, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", apperr.ErrDishNotFound, id)
		}
		return nil, fmt.Errorf("load dish %d: %w", id, err)
	}
	if !a.(authz.Kitchen).OwnsDish(&dish) {
		return nil, apperr.Forbidden("dish belongs to another kitchen")
	}
	return &dish, nil
}

// kitchenOf returns the kitchen profile id of a, which must be a kitchen.
func kitchenOf(a authz.Actor) (uint, error) {
	if _, ok := a.(authz.Kitchen); !ok {
		return 0, apperr.Forbidden("only kitchens manage the catalog")
	}
	return a.ProfileID()
}

func validPrice(p decimal.Decimal) error {
	if !p.IsPositive() {
		return apperr.Invalid("price", "must be greater than zero")
	}
	if !p.Equal(p.Round(2)) {
		return apperr.Invalid("price", "at most two decimal places")
	}
	if p.GreaterThanOrEqual(pricing.MaxAmount) {
		return apperr.Invalid("price", "too large")
	}
	return nil
}

package handlers

import (
	"net/http"

	"mocardapio-api/middleware"
	"mocardapio-api/services"

	"github.com/gin-gonic/gin"
)

// MyDishes lists the kitchen's own dishes; ?available=false gives the unavailable ones
func (h *Handler) MyDishes(c *gin.Context) {
	available, ok := boolQuery(c, "available")
	if !ok {
		return
	}
	dishes, err := h.Catalog.MyDishes(c.Request.Context(), middleware.GetActor(c), available)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(dishes), "dishes": dishes})
}

// AddDish adds a dish to the kitchen's menu
func (h *Handler) AddDish(c *gin.Context) {
	var req services.DishInput
	if !bindJSON(c, &req) {
		return
	}
	dish, err := h.Catalog.CreateDish(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Dish added", "dish": dish})
}

// UpdateDish edits a dish
func (h *Handler) UpdateDish(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.DishUpdate
	if !bindJSON(c, &req) {
		return
	}
	dish, err := h.Catalog.UpdateDish(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dish updated", "dish": dish})
}

func (h *Handler) SetDishAvailability(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.Availability
	if !bindJSON(c, &req) {
		return
	}
	dish, err := h.Catalog.SetDishAvailability(c.Request.Context(), middleware.GetActor(c), id, *req.IsAvailable)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dish": dish})
}

// DeleteDish takes a dish off the menu (soft delete)
func (h *Handler) DeleteDish(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteDish(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dish removed"})
}

// UploadDishImage stores the multipart "image" file and sets it on the dish
func (h *Handler) UploadDishImage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	file, ok := h.formImage(c)
	if !ok {
		return
	}
	defer file.Close()

	dish, err := h.Catalog.SetDishImage(c.Request.Context(), middleware.GetActor(c), id, file)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dish": dish})
}

// SetKitchenAvailability opens or closes the kitchen for new orders
func (h *Handler) SetKitchenAvailability(c *gin.Context) {
	var req services.Availability
	if !bindJSON(c, &req) {
		return
	}
	kitchen, err := h.Catalog.SetKitchenAvailability(c.Request.Context(), middleware.GetActor(c), *req.IsAvailable)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kitchen": kitchen})
}

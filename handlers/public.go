package handlers

import (
	"net/http"

	"mocardapio-api/models"
	"mocardapio-api/services"
	"mocardapio-api/statemachine"

	"github.com/gin-gonic/gin"
)

// ListKitchens returns all kitchens taking orders (public)
func (h *Handler) ListKitchens(c *gin.Context) {
	kitchens, err := h.Catalog.ListKitchens(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(kitchens), "kitchens": kitchens})
}

// GetMenu returns the available dishes of one kitchen (public)
func (h *Handler) GetMenu(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	dishes, err := h.Catalog.KitchenMenu(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(dishes), "dishes": dishes})
}

// ListDishes returns available dishes of available kitchens; ?q= searches, ?kitchen_id= narrows
func (h *Handler) ListDishes(c *gin.Context) {
	var f services.DishFilter
	if !bindQuery(c, &f) {
		return
	}
	dishes, err := h.Catalog.ListDishes(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(dishes), "dishes": dishes})
}

// GetStateMachineInfo returns the full state machine for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"admin":           "may set any status",
		"terminal_states": []models.OrderStatus{models.StatusDelivered, models.StatusCancelled},
		"description":     "Order lifecycle: pending → accepted → preparing → ready → delivering → delivered",
	})
}

package handlers

import (
	"net/http"

	"mocardapio-api/middleware"
	"mocardapio-api/services"

	"github.com/gin-gonic/gin"
)

// PlaceOrder creates a new order (customer only)
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req services.CreateOrderInput
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.Orders.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

package handlers

import (
	"net/http"

	"mocardapio-api/authz"
	"mocardapio-api/middleware"
	"mocardapio-api/models"
	"mocardapio-api/services"

	"github.com/gin-gonic/gin"
)

// ListOrders returns the orders visible to the caller, filtered by role
func (h *Handler) ListOrders(c *gin.Context) {
	var f services.ListFilter
	if !bindQuery(c, &f) {
		return
	}
	orders, err := h.Orders.List(c.Request.Context(), middleware.GetActor(c), f)
	if err != nil {
		fail(c, err)
		return
	}

	// dashboard summary per status
	summary := map[models.OrderStatus]int{}
	for _, o := range orders {
		summary[o.Status]++
	}
	c.JSON(http.StatusOK, gin.H{
		"count":         len(orders),
		"order_summary": summary,
		"orders":        orders,
	})
}

// GetOrderDetail returns a single order's full detail with history
func (h *Handler) GetOrderDetail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)
	order, err := h.Orders.Get(c.Request.Context(), actor, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":             order,
		"valid_next_states": authz.AllowedTargets(actor, order),
	})
}

// UpdateOrderStatus applies a lifecycle transition for the caller's role
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.StatusChange
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.Orders.UpdateStatus(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"order":   order,
	})
}

package handlers

import (
	"net/http"

	"mocardapio-api/models"

	"github.com/gin-gonic/gin"
)

// AdminGetAllUsers returns all users, optionally by ?role= (admin only)
func (h *Handler) AdminGetAllUsers(c *gin.Context) {
	users, err := h.Profiles.ListUsers(c.Request.Context(), models.UserRole(c.Query("role")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminOrderSummary aggregates orders by status with delivered revenue (admin only)
func (h *Handler) AdminOrderSummary(c *gin.Context) {
	sum, err := h.Orders.Summary(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_summary": sum.Counts,
		"total_revenue": sum.Revenue,
		"count":         sum.Total,
	})
}

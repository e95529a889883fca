package handlers

import (
	"net/http"

	"mocardapio-api/middleware"
	"mocardapio-api/services"

	"github.com/gin-gonic/gin"
)

type acceptDeliveryRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// AcceptDelivery assigns a ready order to the calling courier. The courier is
// always the authenticated one; a courier id in the body is ignored.
func (h *Handler) AcceptDelivery(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req acceptDeliveryRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	order, err := h.Orders.Claim(c.Request.Context(), middleware.GetActor(c), id, req.Note)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery accepted",
		"order":   order,
	})
}

// SetCourierAvailability toggles whether the courier takes deliveries
func (h *Handler) SetCourierAvailability(c *gin.Context) {
	var req services.Availability
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.Profiles.SetCourierAvailability(c.Request.Context(), middleware.GetActor(c), *req.IsAvailable)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courier": profile})
}

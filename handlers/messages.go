package handlers

import (
	"net/http"

	"mocardapio-api/middleware"
	"mocardapio-api/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SendMessage(c *gin.Context) {
	var req services.MessageInput
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.Messages.Send(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// ListMessages returns the caller's messages; ?with=<user id> narrows to one conversation
func (h *Handler) ListMessages(c *gin.Context) {
	var f services.MessageFilter
	if !bindQuery(c, &f) {
		return
	}
	msgs, err := h.Messages.List(c.Request.Context(), middleware.GetActor(c), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(msgs), "messages": msgs})
}

package handlers

import (
	"net/http"

	"mocardapio-api/middleware"
	"mocardapio-api/services"

	"github.com/gin-gonic/gin"
)

// Register creates a user and its role profile
func (h *Handler) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	acc, err := h.Auth.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user":    acc.User,
		"profile": acc.Profile,
		"token":   acc.Token,
	})
}

// Login authenticates and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req services.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	acc, err := h.Auth.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    acc.User,
		"profile": acc.Profile,
		"token":   acc.Token,
	})
}

// GetProfile returns the logged-in user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	acc, err := h.Profiles.Get(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": acc.User, "profile": acc.Profile})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req services.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}
	acc, err := h.Profiles.Update(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": acc.User, "profile": acc.Profile})
}

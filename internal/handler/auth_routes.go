package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/user"
)

func (h *Handler) register(c *gin.Context) {
	var in user.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBinding(c, err)
		return
	}
	usr, token, err := h.Users.Register(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"token": token, "user": usr})
}

func (h *Handler) login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		failBinding(c, err)
		return
	}
	usr, token, err := h.Users.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"token": token, "user": usr})
}

func (h *Handler) me(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"user": actor(c)})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var in user.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBinding(c, err)
		return
	}
	usr, err := h.Users.UpdateProfile(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"user": usr})
}

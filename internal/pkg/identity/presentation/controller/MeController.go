package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-parley/internal/pkg/identity/presentation/middleware"
)

// MeController returns the authenticated caller's own profile.
type MeController struct{}

func NewMeController() *MeController {
	return &MeController{}
}

func (h *MeController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":           ident.ID,
			"username":     ident.Username,
			"display_name": ident.DisplayName,
			"status":       ident.Presence,
		})
	}
}

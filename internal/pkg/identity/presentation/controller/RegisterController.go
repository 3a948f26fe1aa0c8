package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	identity "go-parley/internal/pkg/identity/application/domain"
	"go-parley/internal/pkg/identity/application/usecase"
	"go-parley/internal/pkg/identity/persistence/repository/adapter"
)

// RegisterController handles account creation (one controller per endpoint).
type RegisterController struct {
	UC *usecase.RegisterUseCase
}

func NewRegisterController(pool *pgxpool.Pool) *RegisterController {
	return &RegisterController{UC: usecase.NewRegisterUseCase(adapter.NewPgIdentityRepository(pool))}
}

type registerRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password" binding:"required"`
}

func (h *RegisterController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		ident, err := h.UC.Execute(ctx, usecase.RegisterInput{
			Username:    req.Username,
			DisplayName: req.DisplayName,
			Password:    req.Password,
		})
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrUsernameTaken):
				c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected persistence error"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{"user": ident.Profile()})
	}
}

package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	identity "go-parley/internal/pkg/identity/application/domain"
	"go-parley/internal/pkg/identity/application/session"
	"go-parley/internal/pkg/identity/application/usecase"
	"go-parley/internal/pkg/identity/persistence/repository/adapter"
)

// LoginController verifies credentials and returns a bearer token.
type LoginController struct {
	UC *usecase.LoginUseCase
}

func NewLoginController(pool *pgxpool.Pool, issuer *session.Issuer) *LoginController {
	return &LoginController{UC: usecase.NewLoginUseCase(adapter.NewPgIdentityRepository(pool), issuer)}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *LoginController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.LoginInput{Username: req.Username, Password: req.Password})
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrBadCredentials):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "username or password mismatch"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected persistence error"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": out.Token,
			"user":  out.Identity.Profile(),
		})
	}
}

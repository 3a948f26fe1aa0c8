package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-parley/internal/pkg/identity/application/usecase"
	"go-parley/internal/pkg/identity/persistence/repository/adapter"
	"go-parley/internal/pkg/identity/presentation/middleware"
)

// SearchUsersController lists the user directory, excluding the caller.
type SearchUsersController struct {
	UC *usecase.SearchUsersUseCase
}

func NewSearchUsersController(pool *pgxpool.Pool) *SearchUsersController {
	return &SearchUsersController{UC: usecase.NewSearchUsersUseCase(adapter.NewPgIdentityRepository(pool))}
}

func (h *SearchUsersController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		idents, err := h.UC.Execute(ctx, usecase.SearchUsersInput{
			CallerID: ident.ID,
			Term:     c.Query("search"),
		})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(idents))
		for _, u := range idents {
			out = append(out, gin.H{
				"id":           u.ID,
				"username":     u.Username,
				"display_name": u.DisplayName,
				"status":       u.Presence,
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

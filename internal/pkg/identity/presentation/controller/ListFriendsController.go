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

// ListFriendsController returns the caller's friends with live presence.
type ListFriendsController struct {
	UC *usecase.ListFriendsUseCase
}

func NewListFriendsController(pool *pgxpool.Pool) *ListFriendsController {
	return &ListFriendsController{UC: usecase.NewListFriendsUseCase(adapter.NewPgRelationshipRepository(pool))}
}

func (h *ListFriendsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		friends, err := h.UC.Execute(ctx, ident.ID)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(friends))
		for _, f := range friends {
			out = append(out, gin.H{
				"id":           f.ID,
				"username":     f.Username,
				"display_name": f.DisplayName,
				"status":       f.Presence,
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

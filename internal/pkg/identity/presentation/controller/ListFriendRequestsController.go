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

// ListFriendRequestsController returns pending requests addressed to the caller.
type ListFriendRequestsController struct {
	UC *usecase.ListFriendRequestsUseCase
}

func NewListFriendRequestsController(pool *pgxpool.Pool) *ListFriendRequestsController {
	return &ListFriendRequestsController{UC: usecase.NewListFriendRequestsUseCase(adapter.NewPgRelationshipRepository(pool))}
}

func (h *ListFriendRequestsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		reqs, err := h.UC.Execute(ctx, ident.ID)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(reqs))
		for _, r := range reqs {
			out = append(out, gin.H{
				"id":         r.ID,
				"sender":     r.Sender,
				"status":     r.Status,
				"created_at": r.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

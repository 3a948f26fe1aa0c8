package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-parley/internal/pkg/chat/application/usecase"
	"go-parley/internal/pkg/chat/persistence/repository/adapter"
	"go-parley/internal/pkg/identity/presentation/middleware"
)

// ListSessionsController lists the peers the caller has private chats with.
type ListSessionsController struct {
	UC *usecase.ListSessionsUseCase
}

func NewListSessionsController(pool *pgxpool.Pool) *ListSessionsController {
	return &ListSessionsController{UC: usecase.NewListSessionsUseCase(adapter.NewPgMessageRepository(pool))}
}

func (h *ListSessionsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		peers, err := h.UC.Execute(ctx, ident.ID)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, peers)
	}
}

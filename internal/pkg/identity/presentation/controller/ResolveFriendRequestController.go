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
	"go-parley/internal/pkg/identity/presentation/middleware"
)

// ResolveFriendRequestController accepts or rejects a pending friend request.
type ResolveFriendRequestController struct {
	UC *usecase.ResolveFriendRequestUseCase
}

func NewResolveFriendRequestController(pool *pgxpool.Pool) *ResolveFriendRequestController {
	return &ResolveFriendRequestController{UC: usecase.NewResolveFriendRequestUseCase(
		adapter.NewPgRelationshipRepository(pool),
	)}
}

type resolveFriendRequestRequest struct {
	Status string `json:"status" binding:"required"` // "accepted" or "rejected"
}

func (h *ResolveFriendRequestController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		requestID := c.Param("id")
		var req resolveFriendRequestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Status != string(identity.RequestAccepted) && req.Status != string(identity.RequestRejected) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be accepted or rejected"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.ResolveFriendRequestInput{
			RequestID: requestID,
			ActorID:   ident.ID,
			Accept:    req.Status == string(identity.RequestAccepted),
		})
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "friend request does not exist"})
			case errors.Is(err, identity.ErrForbidden):
				c.JSON(http.StatusForbidden, gin.H{"error": "only the receiver may resolve this request"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected persistence error"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"request": out})
	}
}

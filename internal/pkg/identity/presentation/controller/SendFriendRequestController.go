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

// SendFriendRequestController creates a pending friend request.
type SendFriendRequestController struct {
	UC *usecase.SendFriendRequestUseCase
}

func NewSendFriendRequestController(pool *pgxpool.Pool) *SendFriendRequestController {
	return &SendFriendRequestController{UC: usecase.NewSendFriendRequestUseCase(
		adapter.NewPgIdentityRepository(pool),
		adapter.NewPgRelationshipRepository(pool),
	)}
}

type sendFriendRequestRequest struct {
	TargetUserID string `json:"target_user_id" binding:"required"`
}

func (h *SendFriendRequestController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		var req sendFriendRequestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.SendFriendRequestInput{
			SenderID: ident.ID,
			TargetID: req.TargetUserID,
		})
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrSelfRequest):
				c.JSON(http.StatusBadRequest, gin.H{"error": "cannot friend yourself"})
			case errors.Is(err, identity.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "target user does not exist"})
			case errors.Is(err, identity.ErrAlreadyFriends):
				c.JSON(http.StatusConflict, gin.H{"error": "users are already friends"})
			case errors.Is(err, identity.ErrDuplicateRequest):
				c.JSON(http.StatusConflict, gin.H{"error": "a pending friend request already exists"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected persistence error"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{"request": out})
	}
}

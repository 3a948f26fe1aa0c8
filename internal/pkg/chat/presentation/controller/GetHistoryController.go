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

// GetHistoryController fetches message history. The :receiverId path value
// "public" selects the public room; anything else selects the private pair
// between the caller and that user.
type GetHistoryController struct {
	UC *usecase.GetHistoryUseCase
}

func NewGetHistoryController(pool *pgxpool.Pool) *GetHistoryController {
	return &GetHistoryController{UC: usecase.NewGetHistoryUseCase(adapter.NewPgMessageRepository(pool))}
}

func (h *GetHistoryController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		var partnerID *string
		if p := c.Param("receiverId"); p != "" && p != "public" && p != "null" {
			partnerID = &p
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, usecase.GetHistoryInput{UserID: ident.ID, PartnerID: partnerID})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, gin.H{
				"id":          m.ID,
				"sender":      m.Sender,
				"receiver_id": m.ReceiverID,
				"content":     m.Content,
				"timestamp":   m.Timestamp,
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

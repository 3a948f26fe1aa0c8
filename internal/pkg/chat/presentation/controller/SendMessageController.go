package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	queueport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/pkg/chat/application/task"
	"go-parley/internal/pkg/identity/presentation/middleware"
)

// SendMessageController handles REST message submission by enqueueing a
// routing task; the in-process worker runs the same message router as the
// socket path.
type SendMessageController struct {
	Q queueport.Client
}

func NewSendMessageController(client queueport.Client) *SendMessageController {
	return &SendMessageController{Q: client}
}

type sendMessageRequest struct {
	ReceiverID *string `json:"receiver_id"`
	Content    string  `json:"content" binding:"required"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content must not be empty"})
			return
		}

		payload := task.RouteMessageTaskPayload{
			SenderID:   ident.ID,
			ReceiverID: req.ReceiverID,
			Content:    req.Content,
		}
		b, err := json.Marshal(payload)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode task payload"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		opts := queueport.EnqueueOption{Queue: "chat", MaxRetry: 5}
		id, err := h.Q.Enqueue(ctx, queueport.Task{Type: task.RouteMessageTaskType, Payload: b}, opts)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue message"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"status":  "queued",
			"task_id": id,
		})
	}
}

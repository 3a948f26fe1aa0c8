package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-parley/internal/infrastructure/realtime"
	chat "go-parley/internal/pkg/chat/application/domain"
	"go-parley/internal/pkg/chat/application/usecase"
	chatAdapter "go-parley/internal/pkg/chat/persistence/repository/adapter"
	"go-parley/internal/pkg/identity/application/session"
	identityAdapter "go-parley/internal/pkg/identity/persistence/repository/adapter"
)

const defaultReadTimeout = 60 * time.Second

// ChatSocketController owns the websocket endpoint. Each connection walks the
// lifecycle explicitly: gate admission first (no unvalidated connection ever
// reaches the registry), then registry join, then the read loop; teardown is
// deferred so eviction runs whatever interrupts the session.
type ChatSocketController struct {
	gate            *session.Gate
	registry        *realtime.Registry
	routeMessageUC  *usecase.RouteMessageUseCase
	inflightTimeout time.Duration
}

func NewChatSocketController(pool *pgxpool.Pool, gate *session.Gate, registry *realtime.Registry) *ChatSocketController {
	uc := usecase.NewRouteMessageUseCase(
		chatAdapter.NewPgMessageRepository(pool),
		identityAdapter.NewPgIdentityRepository(pool),
		registry,
	)
	return &ChatSocketController{
		gate:            gate,
		registry:        registry,
		routeMessageUC:  uc,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origins are not restricted; the bearer token is the admission check.
		return true
	},
}

type inboundFrame struct {
	Type       string  `json:"type"`
	ReceiverID *string `json:"receiver_id,omitempty"`
	Content    string  `json:"content,omitempty"`
}

type errorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

type ackFrame struct {
	Type string `json:"type"`
}

// Handle validates the handshake credential, upgrades the connection, and
// processes frames until the client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = bearerToken(c.GetHeader("Authorization"))
		}

		ident, err := ctl.gate.Admit(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			return
		}

		conn := realtime.NewConnection(ident.ID, ws)
		conn.Start()
		conn.Admit()
		ctl.registry.Join(ident.ID, conn)
		defer func() {
			ctl.registry.Leave(ident.ID, conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		if payload, err := json.Marshal(ackFrame{Type: "connected"}); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "invalid payload", err.Error())
				continue
			}

			switch frame.Type {
			case "send_message":
				ctl.handleSendMessage(c, conn, ident.ID, frame)
			default:
				ctl.replyError(conn, "unknown frame type", frame.Type)
			}
		}
	}
}

func (ctl *ChatSocketController) handleSendMessage(c *gin.Context, conn *realtime.Connection, senderID string, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	_, err := ctl.routeMessageUC.Execute(ctx, usecase.RouteMessageInput{
		SenderID:   senderID,
		ReceiverID: frame.ReceiverID,
		Content:    frame.Content,
	})
	if err != nil {
		// Errors go back on the submitting connection only; delivery to the
		// recipients already happened inside the use case on success.
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			ctl.replyError(conn, "message rejected", "content must not be empty")
		case errors.Is(err, usecase.ErrPersistence):
			ctl.replyError(conn, "message not sent", "unexpected persistence error")
		default:
			ctl.replyError(conn, "message not sent", err.Error())
		}
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, message, detail string) {
	payload, err := json.Marshal(errorFrame{Type: "message_error", Message: message, Detail: detail})
	if err != nil {
		return
	}
	_ = conn.Send(payload)
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

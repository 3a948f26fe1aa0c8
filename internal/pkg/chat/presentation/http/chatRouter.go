package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/infrastructure/realtime"
	"go-parley/internal/pkg/chat/presentation/controller"
	"go-parley/internal/pkg/identity/application/session"
	"go-parley/internal/pkg/identity/presentation/middleware"
)

// RegisterRoutes mounts chat endpoints under the given router group. The
// websocket endpoint does its own gate admission at handshake time; the REST
// endpoints go through the auth middleware.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, client qport.Client, gate *session.Gate, registry *realtime.Registry) {
	sendMsgCtl := controller.NewSendMessageController(client)
	historyCtl := controller.NewGetHistoryController(pool)
	sessionsCtl := controller.NewListSessionsController(pool)
	socketCtl := controller.NewChatSocketController(pool, gate, registry)

	authed := g.Group("", middleware.RequireIdentity(gate))
	authed.POST("/messages", sendMsgCtl.Handle())
	authed.GET("/messages/history/:receiverId", historyCtl.Handle())
	authed.GET("/messages/sessions", sessionsCtl.Handle())

	g.GET("/chat/ws", socketCtl.Handle())
}

package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-parley/internal/pkg/identity/application/session"
	"go-parley/internal/pkg/identity/presentation/controller"
	"go-parley/internal/pkg/identity/presentation/middleware"
)

// RegisterRoutes mounts identity, auth, and friend endpoints under the given
// router group. Controllers are constructed per endpoint and bound directly.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, gate *session.Gate, issuer *session.Issuer) {
	registerCtl := controller.NewRegisterController(pool)
	loginCtl := controller.NewLoginController(pool, issuer)
	meCtl := controller.NewMeController()
	searchCtl := controller.NewSearchUsersController(pool)
	sendReqCtl := controller.NewSendFriendRequestController(pool)
	resolveReqCtl := controller.NewResolveFriendRequestController(pool)
	listReqsCtl := controller.NewListFriendRequestsController(pool)
	listFriendsCtl := controller.NewListFriendsController(pool)

	g.POST("/auth/register", registerCtl.Handle())
	g.POST("/auth/login", loginCtl.Handle())

	authed := g.Group("", middleware.RequireIdentity(gate))
	authed.GET("/auth/me", meCtl.Handle())
	authed.GET("/users", searchCtl.Handle())
	authed.POST("/friends/requests", sendReqCtl.Handle())
	authed.GET("/friends/requests", listReqsCtl.Handle())
	authed.PUT("/friends/requests/:id", resolveReqCtl.Handle())
	authed.GET("/friends", listFriendsCtl.Handle())
}

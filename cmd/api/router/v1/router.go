package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/infrastructure/realtime"
	chatHandler "go-parley/internal/pkg/chat/presentation/http"
	"go-parley/internal/pkg/identity/application/session"
	identityHandler "go-parley/internal/pkg/identity/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1.
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, client qport.Client, gate *session.Gate, issuer *session.Issuer, registry *realtime.Registry) {
	v1 := r.Group("/api/v1")
	identityHandler.RegisterRoutes(v1, pool, gate, issuer)
	chatHandler.RegisterRoutes(v1, pool, client, gate, registry)
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	identity "go-parley/internal/pkg/identity/application/domain"
	"go-parley/internal/pkg/identity/application/session"
)

const identityKey = "identity"

// RequireIdentity admits the request through the session gate using the
// Bearer token from the Authorization header and stores the resolved identity
// in the request context. Unauthorized requests are rejected before any
// handler runs.
func RequireIdentity(gate *session.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))

		ident, err := gate.Admit(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// CurrentIdentity returns the identity resolved by RequireIdentity.
func CurrentIdentity(c *gin.Context) (*identity.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	ident, ok := v.(*identity.Identity)
	return ident, ok
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

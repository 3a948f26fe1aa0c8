package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	identity "go-parley/internal/pkg/identity/application/domain"
)

// IdentityResolver looks up the identity a credential resolves to.
type IdentityResolver interface {
	FindByID(ctx context.Context, id string) (*identity.Identity, error)
}

// Issuer mints signed bearer tokens for authenticated identities.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue returns an HS256 token whose subject is the identity id.
func (i *Issuer) Issue(identityID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   identityID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Gate validates an inbound credential and resolves it to an identity. It
// runs before any registry admission: a connection with no validated identity
// never reaches the registry.
type Gate struct {
	secret   []byte
	resolver IdentityResolver
}

func NewGate(secret []byte, resolver IdentityResolver) *Gate {
	return &Gate{secret: secret, resolver: resolver}
}

// Admit verifies the token's signature and expiry and looks up the identity.
// A missing, malformed, or expired token, or one that resolves to no
// identity, fails with identity.ErrUnauthorized. The only side effect is the
// store lookup.
func (g *Gate) Admit(ctx context.Context, token string) (*identity.Identity, error) {
	if token == "" {
		return nil, identity.ErrUnauthorized
	}

	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || claims.Subject == "" {
		return nil, identity.ErrUnauthorized
	}

	ident, err := g.resolver.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("session: resolve identity: %w", err)
	}
	if ident == nil {
		return nil, identity.ErrUnauthorized
	}
	return ident, nil
}

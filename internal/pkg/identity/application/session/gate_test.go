package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	identity "go-parley/internal/pkg/identity/application/domain"
)

type fakeResolver struct {
	identities map[string]*identity.Identity
	err        error
}

func (r *fakeResolver) FindByID(ctx context.Context, id string) (*identity.Identity, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.identities[id], nil
}

func newGateFixture() (*Issuer, *Gate) {
	secret := []byte("test-secret")
	resolver := &fakeResolver{identities: map[string]*identity.Identity{
		"u1": {ID: "u1", Username: "alice"},
	}}
	return NewIssuer(secret, time.Hour), NewGate(secret, resolver)
}

func TestAdmitValidToken(t *testing.T) {
	issuer, gate := newGateFixture()

	token, err := issuer.Issue("u1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	ident, err := gate.Admit(context.Background(), token)
	if err != nil {
		t.Fatalf("Admit failed: %v", err)
	}
	if ident.ID != "u1" || ident.Username != "alice" {
		t.Errorf("unexpected identity: %+v", ident)
	}
}

func TestAdmitEmptyToken(t *testing.T) {
	_, gate := newGateFixture()

	_, err := gate.Admit(context.Background(), "")
	if !errors.Is(err, identity.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAdmitMalformedToken(t *testing.T) {
	_, gate := newGateFixture()

	_, err := gate.Admit(context.Background(), "not-a-jwt")
	if !errors.Is(err, identity.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAdmitWrongSecret(t *testing.T) {
	_, gate := newGateFixture()

	forged := NewIssuer([]byte("other-secret"), time.Hour)
	token, err := forged.Issue("u1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = gate.Admit(context.Background(), token)
	if !errors.Is(err, identity.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for forged token, got %v", err)
	}
}

func TestAdmitExpiredToken(t *testing.T) {
	_, gate := newGateFixture()

	expired := NewIssuer([]byte("test-secret"), -time.Minute)
	token, err := expired.Issue("u1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = gate.Admit(context.Background(), token)
	if !errors.Is(err, identity.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestAdmitUnknownIdentity(t *testing.T) {
	issuer, gate := newGateFixture()

	token, err := issuer.Issue("ghost")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = gate.Admit(context.Background(), token)
	if !errors.Is(err, identity.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown subject, got %v", err)
	}
}

func TestAdmitRejectsNoneAlgorithm(t *testing.T) {
	_, gate := newGateFixture()

	claims := jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = gate.Admit(context.Background(), token)
	if !errors.Is(err, identity.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for alg=none token, got %v", err)
	}
}

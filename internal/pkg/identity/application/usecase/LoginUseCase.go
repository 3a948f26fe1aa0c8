package usecase

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	identity "go-parley/internal/pkg/identity/application/domain"
	"go-parley/internal/pkg/identity/application/session"
	repository "go-parley/internal/pkg/identity/persistence/repository/port"
)

// LoginInput carries the submitted credentials.
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput is the issued token plus the authenticated identity.
type LoginOutput struct {
	Token    string
	Identity *identity.Identity
}

// LoginUseCase verifies credentials and issues a bearer token.
type LoginUseCase struct {
	Repo   repository.IdentityRepository
	Issuer *session.Issuer
}

func NewLoginUseCase(repo repository.IdentityRepository, issuer *session.Issuer) *LoginUseCase {
	return &LoginUseCase{Repo: repo, Issuer: issuer}
}

func (uc *LoginUseCase) Execute(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	if in.Username == "" || in.Password == "" {
		return nil, identity.ErrBadCredentials
	}

	ident, err := uc.Repo.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if ident == nil {
		return nil, identity.ErrBadCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(in.Password)) != nil {
		return nil, identity.ErrBadCredentials
	}

	token, err := uc.Issuer.Issue(ident.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginOutput{Token: token, Identity: ident}, nil
}

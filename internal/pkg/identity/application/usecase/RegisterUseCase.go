package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	identity "go-parley/internal/pkg/identity/application/domain"
	repository "go-parley/internal/pkg/identity/persistence/repository/port"
)

// RegisterInput carries the data needed to create a new account.
type RegisterInput struct {
	Username    string
	DisplayName string
	Password    string
}

// RegisterUseCase creates an identity with a bcrypt-hashed password. The
// display name falls back to the username when not provided.
type RegisterUseCase struct {
	Repo repository.IdentityRepository
}

func NewRegisterUseCase(repo repository.IdentityRepository) *RegisterUseCase {
	return &RegisterUseCase{Repo: repo}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, in RegisterInput) (*identity.Identity, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	existing, err := uc.Repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing != nil {
		return nil, identity.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		displayName = username
	}

	ident := identity.Identity{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Presence:     identity.PresenceOffline,
		CreatedAt:    time.Now().UTC(),
	}

	id, err := uc.Repo.Create(ctx, ident)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	ident.ID = id
	return &ident, nil
}

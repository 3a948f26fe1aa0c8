package usecase

import (
	"context"
	"fmt"
	"strings"

	identity "go-parley/internal/pkg/identity/application/domain"
	repository "go-parley/internal/pkg/identity/persistence/repository/port"
)

// SearchUsersInput filters the user directory for everyone except the caller.
type SearchUsersInput struct {
	CallerID string
	Term     string
}

// SearchUsersUseCase lists identities matching a directory search.
type SearchUsersUseCase struct {
	Repo repository.IdentityRepository
}

func NewSearchUsersUseCase(repo repository.IdentityRepository) *SearchUsersUseCase {
	return &SearchUsersUseCase{Repo: repo}
}

func (uc *SearchUsersUseCase) Execute(ctx context.Context, in SearchUsersInput) ([]identity.Identity, error) {
	if in.CallerID == "" {
		return nil, fmt.Errorf("caller id is required")
	}
	idents, err := uc.Repo.Search(ctx, in.CallerID, strings.TrimSpace(in.Term))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return idents, nil
}

package usecase

import (
	"context"
	"fmt"

	identity "go-parley/internal/pkg/identity/application/domain"
	repository "go-parley/internal/pkg/identity/persistence/repository/port"
)

// ListFriendsUseCase returns the caller's accepted friends with their live
// presence.
type ListFriendsUseCase struct {
	Relationships repository.RelationshipRepository
}

func NewListFriendsUseCase(relationships repository.RelationshipRepository) *ListFriendsUseCase {
	return &ListFriendsUseCase{Relationships: relationships}
}

func (uc *ListFriendsUseCase) Execute(ctx context.Context, userID string) ([]identity.Identity, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	friends, err := uc.Relationships.ListFriends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return friends, nil
}

package usecase

import (
	"context"
	"fmt"

	identity "go-parley/internal/pkg/identity/application/domain"
	repository "go-parley/internal/pkg/identity/persistence/repository/port"
)

// ListFriendRequestsUseCase returns the pending requests addressed to the
// caller, with sender profiles attached.
type ListFriendRequestsUseCase struct {
	Relationships repository.RelationshipRepository
}

func NewListFriendRequestsUseCase(relationships repository.RelationshipRepository) *ListFriendRequestsUseCase {
	return &ListFriendRequestsUseCase{Relationships: relationships}
}

func (uc *ListFriendRequestsUseCase) Execute(ctx context.Context, receiverID string) ([]identity.FriendRequest, error) {
	if receiverID == "" {
		return nil, fmt.Errorf("receiver id is required")
	}
	reqs, err := uc.Relationships.ListPendingForReceiver(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return reqs, nil
}

package usecase

import (
	"context"
	"fmt"

	identity "go-parley/internal/pkg/identity/application/domain"
	repository "go-parley/internal/pkg/identity/persistence/repository/port"
)

// SendFriendRequestInput is a directed invitation from sender to target.
type SendFriendRequestInput struct {
	SenderID string
	TargetID string
}

// SendFriendRequestUseCase creates a pending friend request after checking
// the relationship invariants: no self-requests, no request between existing
// friends, and at most one pending request per ordered pair.
type SendFriendRequestUseCase struct {
	Identities    repository.IdentityRepository
	Relationships repository.RelationshipRepository
}

func NewSendFriendRequestUseCase(identities repository.IdentityRepository, relationships repository.RelationshipRepository) *SendFriendRequestUseCase {
	return &SendFriendRequestUseCase{Identities: identities, Relationships: relationships}
}

func (uc *SendFriendRequestUseCase) Execute(ctx context.Context, in SendFriendRequestInput) (*identity.FriendRequest, error) {
	if in.SenderID == "" || in.TargetID == "" {
		return nil, fmt.Errorf("sender and target ids are required")
	}
	if in.SenderID == in.TargetID {
		return nil, identity.ErrSelfRequest
	}

	target, err := uc.Identities.FindByID(ctx, in.TargetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if target == nil {
		return nil, identity.ErrNotFound
	}

	friends, err := uc.Relationships.FriendshipExists(ctx, in.SenderID, in.TargetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if friends {
		return nil, identity.ErrAlreadyFriends
	}

	pending, err := uc.Relationships.PendingRequestExists(ctx, in.SenderID, in.TargetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if pending {
		return nil, identity.ErrDuplicateRequest
	}

	req, err := uc.Relationships.CreateRequest(ctx, in.SenderID, in.TargetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return req, nil
}

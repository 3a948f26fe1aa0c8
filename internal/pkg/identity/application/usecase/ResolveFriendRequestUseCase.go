package usecase

import (
	"context"
	"fmt"

	identity "go-parley/internal/pkg/identity/application/domain"
	repository "go-parley/internal/pkg/identity/persistence/repository/port"
)

// ResolveFriendRequestInput is the receiver's decision on a pending request.
type ResolveFriendRequestInput struct {
	RequestID string
	ActorID   string
	Accept    bool
}

// ResolveFriendRequestUseCase accepts or rejects a friend request. Only the
// request's receiver may resolve it; acceptance creates both symmetric
// friendship rows atomically.
type ResolveFriendRequestUseCase struct {
	Relationships repository.RelationshipRepository
}

func NewResolveFriendRequestUseCase(relationships repository.RelationshipRepository) *ResolveFriendRequestUseCase {
	return &ResolveFriendRequestUseCase{Relationships: relationships}
}

func (uc *ResolveFriendRequestUseCase) Execute(ctx context.Context, in ResolveFriendRequestInput) (*identity.FriendRequest, error) {
	if in.RequestID == "" || in.ActorID == "" {
		return nil, fmt.Errorf("request and actor ids are required")
	}

	req, err := uc.Relationships.FindRequestByID(ctx, in.RequestID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if req == nil {
		return nil, identity.ErrNotFound
	}
	if req.ReceiverID != in.ActorID {
		return nil, identity.ErrForbidden
	}

	if in.Accept {
		if err := uc.Relationships.AcceptRequest(ctx, *req); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		req.Status = identity.RequestAccepted
	} else {
		if err := uc.Relationships.RejectRequest(ctx, req.ID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		req.Status = identity.RequestRejected
	}
	return req, nil
}

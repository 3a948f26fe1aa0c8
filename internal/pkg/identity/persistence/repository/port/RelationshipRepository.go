package repository

import (
	"context"

	identity "go-parley/internal/pkg/identity/application/domain"
)

// RelationshipRepository is the durable store for friend requests and
// friendships.
type RelationshipRepository interface {
	// FriendshipExists reports whether a friendship row exists in either
	// direction between the two identities.
	FriendshipExists(ctx context.Context, a, b string) (bool, error)

	// PendingRequestExists reports whether a pending request exists for the
	// ordered (sender, receiver) pair.
	PendingRequestExists(ctx context.Context, senderID, receiverID string) (bool, error)

	CreateRequest(ctx context.Context, senderID, receiverID string) (*identity.FriendRequest, error)
	FindRequestByID(ctx context.Context, id string) (*identity.FriendRequest, error)
	ListPendingForReceiver(ctx context.Context, receiverID string) ([]identity.FriendRequest, error)

	// AcceptRequest marks the request accepted and inserts both symmetric
	// friendship rows in a single transaction.
	AcceptRequest(ctx context.Context, req identity.FriendRequest) error
	RejectRequest(ctx context.Context, id string) error

	// ListFriends returns the accepted friends of userID with their live
	// presence.
	ListFriends(ctx context.Context, userID string) ([]identity.Identity, error)
}

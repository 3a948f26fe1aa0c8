package repository

import (
	"context"

	chat "go-parley/internal/pkg/chat/application/domain"
)

// MessageRepository is the durable append-only message log.
type MessageRepository interface {
	// Append persists the message and returns it with the store-assigned id
	// and timestamp. Records are immutable after creation.
	Append(ctx context.Context, m chat.Message) (*chat.Message, error)

	// History returns messages in ascending timestamp order. A nil partnerID
	// selects the public room; otherwise both directions of the
	// (userID, partnerID) pair are returned.
	History(ctx context.Context, userID string, partnerID *string) ([]chat.Message, error)

	// Sessions lists the distinct peers userID has exchanged private
	// messages with.
	Sessions(ctx context.Context, userID string) ([]chat.Peer, error)
}

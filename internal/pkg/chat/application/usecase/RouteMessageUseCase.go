package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
	identityrepo "go-parley/internal/pkg/identity/persistence/repository/port"
)

// Dispatcher is the delivery side of the connection registry. Delivery is
// fire-and-forget: an unreachable user is a normal outcome, not an error.
type Dispatcher interface {
	DeliverToUser(identityID string, payload []byte) bool
	BroadcastAll(payload []byte)
}

// RouteMessageInput is a transient message intent from one client submission.
// A nil ReceiverID means a public message.
type RouteMessageInput struct {
	SenderID   string
	ReceiverID *string
	Content    string
}

// DeliveredMessage is the receive_message wire frame.
type DeliveredMessage struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	Sender     chat.Peer `json:"sender"`
	ReceiverID *string   `json:"receiver_id,omitempty"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// RouteMessageUseCase is the message router: it validates the intent,
// persists the record, resolves the sender's display info, and dispatches.
// A private message goes to the receiver and back to the sender (the sender
// copy is the delivery confirmation echo); a public one goes to every live
// connection. Dispatch never starts before persistence succeeds.
type RouteMessageUseCase struct {
	Messages   repository.MessageRepository
	Identities identityrepo.IdentityRepository
	Dispatch   Dispatcher
}

func NewRouteMessageUseCase(messages repository.MessageRepository, identities identityrepo.IdentityRepository, dispatch Dispatcher) *RouteMessageUseCase {
	return &RouteMessageUseCase{Messages: messages, Identities: identities, Dispatch: dispatch}
}

func (uc *RouteMessageUseCase) Execute(ctx context.Context, in RouteMessageInput) (*chat.Message, error) {
	msg, err := chat.NewMessage(in.SenderID, in.ReceiverID, in.Content)
	if err != nil {
		return nil, err
	}

	saved, err := uc.Messages.Append(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	sender, err := uc.Identities.FindByID(ctx, saved.SenderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	senderPeer := chat.Peer{ID: saved.SenderID}
	if sender != nil {
		senderPeer.Username = sender.Username
		senderPeer.DisplayName = sender.DisplayName
	}

	payload, err := json.Marshal(DeliveredMessage{
		Type:       "receive_message",
		ID:         saved.ID,
		Sender:     senderPeer,
		ReceiverID: saved.ReceiverID,
		Content:    saved.Content,
		Timestamp:  saved.Timestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("encode message payload: %w", err)
	}

	if saved.ReceiverID != nil {
		_ = uc.Dispatch.DeliverToUser(*saved.ReceiverID, payload)
		_ = uc.Dispatch.DeliverToUser(saved.SenderID, payload)
	} else {
		uc.Dispatch.BroadcastAll(payload)
	}

	saved.Sender = &senderPeer
	return saved, nil
}

package chat

import (
	"errors"
	"strings"
	"time"
)

// Domain-level errors for messaging behaviors.
var ErrEmptyMessage = errors.New("chat: message content is empty")

// Message is an immutable entry in the append-only message log. A nil
// ReceiverID marks a public message, delivered to every live connection.
type Message struct {
	ID         string    `db:"id"`
	SenderID   string    `db:"sender_id"`
	ReceiverID *string   `db:"receiver_id"`
	Content    string    `db:"content"`
	Timestamp  time.Time `db:"timestamp"`

	// Sender profile, populated on history queries only.
	Sender *Peer `db:"-"`
}

// Peer is the sender/partner projection attached to messages on the wire.
type Peer struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// NewMessage validates a message intent. Content is trimmed; a message with
// nothing left is rejected before any persistence attempt.
func NewMessage(senderID string, receiverID *string, content string) (*Message, error) {
	if senderID == "" {
		return nil, errors.New("chat: sender id is required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if receiverID != nil && *receiverID == "" {
		receiverID = nil
	}
	return &Message{SenderID: senderID, ReceiverID: receiverID, Content: content}, nil
}

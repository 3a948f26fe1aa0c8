package identity

import "time"

// RequestStatus is the lifecycle state of a friend request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// FriendRequest is a directed invitation from sender to receiver. At most one
// pending request may exist per ordered (sender, receiver) pair; the usecase
// enforces this with an existence check before insert.
type FriendRequest struct {
	ID         string        `db:"id"`
	SenderID   string        `db:"sender_id"`
	ReceiverID string        `db:"receiver_id"`
	Status     RequestStatus `db:"status"`
	CreatedAt  time.Time     `db:"created_at"`

	// Sender profile, populated on listing queries only.
	Sender *Profile `db:"-"`
}

// Friendship is one direction of an accepted relation. Rows are always
// created as a symmetric pair (user, friend) and (friend, user) in a single
// transaction, never unilaterally.
type Friendship struct {
	UserID    string        `db:"user_id"`
	FriendID  string        `db:"friend_id"`
	Status    RequestStatus `db:"status"`
	CreatedAt time.Time     `db:"created_at"`
}

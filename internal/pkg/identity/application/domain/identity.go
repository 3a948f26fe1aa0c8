package identity

import "time"

// Presence is the derived online/offline state of an identity. It is owned by
// the presence tracker: REST-style identity updates never touch it.
type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceOffline Presence = "offline"
)

// Identity is a registered user account.
type Identity struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	DisplayName  string    `db:"display_name"`
	PasswordHash string    `db:"password_hash"`
	Presence     Presence  `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
}

// Profile is the public projection of an identity, safe to put on the wire.
type Profile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// Profile returns the public projection of the identity.
func (i Identity) Profile() Profile {
	return Profile{ID: i.ID, Username: i.Username, DisplayName: i.DisplayName}
}

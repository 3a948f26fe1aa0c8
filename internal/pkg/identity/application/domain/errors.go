package identity

import "errors"

// Domain-level errors for identity and relationship behaviors.
var (
	ErrUnauthorized     = errors.New("identity: invalid or expired credential")
	ErrNotFound         = errors.New("identity: not found")
	ErrUsernameTaken    = errors.New("identity: username already taken")
	ErrBadCredentials   = errors.New("identity: username or password mismatch")
	ErrSelfRequest      = errors.New("identity: cannot friend yourself")
	ErrAlreadyFriends   = errors.New("identity: users are already friends")
	ErrDuplicateRequest = errors.New("identity: a pending friend request already exists")
	ErrForbidden        = errors.New("identity: acting user may not resolve this request")
)

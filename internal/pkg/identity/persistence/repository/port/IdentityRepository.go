package repository

import (
	"context"

	identity "go-parley/internal/pkg/identity/application/domain"
)

// IdentityRepository is the durable identity store. Lookups return (nil, nil)
// when no row matches; a non-nil error always means a storage failure.
type IdentityRepository interface {
	Create(ctx context.Context, ident identity.Identity) (string, error)
	FindByID(ctx context.Context, id string) (*identity.Identity, error)
	FindByUsername(ctx context.Context, username string) (*identity.Identity, error)

	// Search lists all identities except excludeID, optionally filtered by a
	// case-insensitive substring match on username or display name.
	Search(ctx context.Context, excludeID, term string) ([]identity.Identity, error)

	// UpdatePresence mutates the derived presence field. Only the presence
	// tracker calls this.
	UpdatePresence(ctx context.Context, id string, p identity.Presence) error
}

package presence

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	cacheport "go-parley/internal/infrastructure/cache/port"
	identity "go-parley/internal/pkg/identity/application/domain"
)

const storeTimeout = 3 * time.Second

// IdentityStore is the slice of the identity repository the tracker needs.
type IdentityStore interface {
	FindByID(ctx context.Context, id string) (*identity.Identity, error)
	UpdatePresence(ctx context.Context, id string, p identity.Presence) error
}

// Broadcaster fans a payload out to every connection except the named
// identity's own.
type Broadcaster interface {
	BroadcastExcept(identityID string, payload []byte)
}

// statusEvent is the wire frame for presence changes.
type statusEvent struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"`
}

// Tracker derives online/offline transitions from connection registry
// membership changes and publishes them: durable store first, then a
// best-effort Redis snapshot, then a broadcast to everyone else. All of it is
// best-effort; a failure is logged and never surfaces to the connection that
// triggered it.
type Tracker struct {
	store     IdentityStore
	broadcast Broadcaster
	cache     cacheport.Cache // optional, may be nil
	log       *slog.Logger
}

func NewTracker(store IdentityStore, broadcast Broadcaster, cache cacheport.Cache, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{store: store, broadcast: broadcast, cache: cache, log: log}
}

// OnRegistryChange applies the presence transition rules:
// empty -> non-empty marks the identity online, non-empty -> empty marks it
// offline, anything else is a no-op. Only the 0->1 and 1->0 registry
// transitions reach this method with a matching flag pair, so multi-device
// connects and disconnects cannot double-fire.
func (t *Tracker) OnRegistryChange(identityID string, wasEmpty, isEmptyNow bool) {
	var status identity.Presence
	switch {
	case wasEmpty && !isEmptyNow:
		status = identity.PresenceOnline
	case !wasEmpty && isEmptyNow:
		status = identity.PresenceOffline
	default:
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	ident, err := t.store.FindByID(ctx, identityID)
	if err != nil || ident == nil {
		t.log.Warn("presence: identity lookup failed", "identity", identityID, "error", err)
		return
	}

	if err := t.store.UpdatePresence(ctx, identityID, status); err != nil {
		// Presence is best-effort: log and skip the broadcast.
		t.log.Warn("presence: store update failed", "identity", identityID, "status", status, "error", err)
		return
	}

	if t.cache != nil {
		if err := t.cache.Set(ctx, "presence:"+identityID, string(status), 0); err != nil {
			t.log.Warn("presence: cache update failed", "identity", identityID, "error", err)
		}
	}

	payload, err := json.Marshal(statusEvent{
		Type:        "user_status_changed",
		ID:          ident.ID,
		Username:    ident.Username,
		DisplayName: ident.DisplayName,
		Status:      string(status),
	})
	if err != nil {
		t.log.Warn("presence: encode status event failed", "identity", identityID, "error", err)
		return
	}

	t.broadcast.BroadcastExcept(identityID, payload)
}

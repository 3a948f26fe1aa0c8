package presence

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	identity "go-parley/internal/pkg/identity/application/domain"
)

type fakeStore struct {
	mu         sync.Mutex
	identities map[string]*identity.Identity
	updates    []identity.Presence
	findErr    error
	updateErr  error
}

func (s *fakeStore) FindByID(ctx context.Context, id string) (*identity.Identity, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.identities[id], nil
}

func (s *fakeStore) UpdatePresence(ctx context.Context, id string, p identity.Presence) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, p)
	return nil
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	excluded []string
	payloads [][]byte
}

func (b *fakeBroadcaster) BroadcastExcept(identityID string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.excluded = append(b.excluded, identityID)
	b.payloads = append(b.payloads, payload)
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	setErr error
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) { return "", nil }

func (c *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]string)
	}
	c.values[key] = value
	return nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) (int64, error) { return 0, nil }
func (c *fakeCache) Ping(ctx context.Context) error                         { return nil }
func (c *fakeCache) Close() error                                           { return nil }

func newTrackerFixture() (*fakeStore, *fakeBroadcaster, *fakeCache, *Tracker) {
	store := &fakeStore{identities: map[string]*identity.Identity{
		"u1": {ID: "u1", Username: "alice", DisplayName: "Alice"},
	}}
	broadcast := &fakeBroadcaster{}
	cache := &fakeCache{}
	return store, broadcast, cache, NewTracker(store, broadcast, cache, nil)
}

func TestTrackerMarksOnline(t *testing.T) {
	store, broadcast, cache, tracker := newTrackerFixture()

	tracker.OnRegistryChange("u1", true, false)

	if len(store.updates) != 1 || store.updates[0] != identity.PresenceOnline {
		t.Fatalf("expected one online update, got %v", store.updates)
	}
	if cache.values["presence:u1"] != string(identity.PresenceOnline) {
		t.Errorf("cache snapshot not written: %v", cache.values)
	}
	if len(broadcast.payloads) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(broadcast.payloads))
	}
	if broadcast.excluded[0] != "u1" {
		t.Errorf("broadcast should exclude the transitioning identity, excluded %q", broadcast.excluded[0])
	}

	var event struct {
		Type        string `json:"type"`
		ID          string `json:"id"`
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
		Status      string `json:"status"`
	}
	if err := json.Unmarshal(broadcast.payloads[0], &event); err != nil {
		t.Fatalf("broadcast payload is not JSON: %v", err)
	}
	if event.Type != "user_status_changed" || event.ID != "u1" || event.Username != "alice" || event.Status != "online" {
		t.Errorf("unexpected status event: %+v", event)
	}
}

func TestTrackerMarksOffline(t *testing.T) {
	store, broadcast, _, tracker := newTrackerFixture()

	tracker.OnRegistryChange("u1", false, true)

	if len(store.updates) != 1 || store.updates[0] != identity.PresenceOffline {
		t.Fatalf("expected one offline update, got %v", store.updates)
	}
	var event struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(broadcast.payloads[0], &event); err != nil {
		t.Fatalf("broadcast payload is not JSON: %v", err)
	}
	if event.Status != "offline" {
		t.Errorf("expected offline status, got %q", event.Status)
	}
}

func TestTrackerIgnoresNonBoundaryTransitions(t *testing.T) {
	store, broadcast, _, tracker := newTrackerFixture()

	tracker.OnRegistryChange("u1", false, false)
	tracker.OnRegistryChange("u1", true, true)

	if len(store.updates) != 0 {
		t.Errorf("expected no store updates, got %v", store.updates)
	}
	if len(broadcast.payloads) != 0 {
		t.Errorf("expected no broadcasts, got %d", len(broadcast.payloads))
	}
}

func TestTrackerSkipsBroadcastWhenStoreFails(t *testing.T) {
	store, broadcast, _, tracker := newTrackerFixture()
	store.updateErr = errors.New("db down")

	tracker.OnRegistryChange("u1", true, false)

	if len(broadcast.payloads) != 0 {
		t.Errorf("expected no broadcast after store failure, got %d", len(broadcast.payloads))
	}
}

func TestTrackerSkipsUnknownIdentity(t *testing.T) {
	store, broadcast, _, tracker := newTrackerFixture()

	tracker.OnRegistryChange("ghost", true, false)

	if len(store.updates) != 0 {
		t.Errorf("expected no store updates, got %v", store.updates)
	}
	if len(broadcast.payloads) != 0 {
		t.Errorf("expected no broadcasts, got %d", len(broadcast.payloads))
	}
}

func TestTrackerBroadcastsDespiteCacheFailure(t *testing.T) {
	store, broadcast, cache, _ := newTrackerFixture()
	cache.setErr = errors.New("redis down")
	tracker := NewTracker(store, broadcast, cache, nil)

	tracker.OnRegistryChange("u1", true, false)

	if len(broadcast.payloads) != 1 {
		t.Errorf("cache failure must not block the broadcast, got %d broadcasts", len(broadcast.payloads))
	}
}

func TestTrackerRunsWithoutCache(t *testing.T) {
	store, broadcast, _, _ := newTrackerFixture()
	tracker := NewTracker(store, broadcast, nil, nil)

	tracker.OnRegistryChange("u1", true, false)

	if len(broadcast.payloads) != 1 {
		t.Errorf("expected broadcast with nil cache, got %d", len(broadcast.payloads))
	}
}

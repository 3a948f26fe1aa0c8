package usecase

import (
	"context"
	"errors"
	"strconv"
	"testing"

	identity "go-parley/internal/pkg/identity/application/domain"
)

type memIdentityRepo struct {
	identities map[string]*identity.Identity
	nextID     int
}

func newMemIdentityRepo(idents ...*identity.Identity) *memIdentityRepo {
	r := &memIdentityRepo{identities: make(map[string]*identity.Identity)}
	for _, ident := range idents {
		r.identities[ident.ID] = ident
	}
	return r
}

func (r *memIdentityRepo) Create(ctx context.Context, ident identity.Identity) (string, error) {
	r.nextID++
	id := strconv.Itoa(r.nextID)
	ident.ID = id
	r.identities[id] = &ident
	return id, nil
}

func (r *memIdentityRepo) FindByID(ctx context.Context, id string) (*identity.Identity, error) {
	return r.identities[id], nil
}

func (r *memIdentityRepo) FindByUsername(ctx context.Context, username string) (*identity.Identity, error) {
	for _, ident := range r.identities {
		if ident.Username == username {
			return ident, nil
		}
	}
	return nil, nil
}

func (r *memIdentityRepo) Search(ctx context.Context, excludeID, term string) ([]identity.Identity, error) {
	var out []identity.Identity
	for _, ident := range r.identities {
		if ident.ID != excludeID {
			out = append(out, *ident)
		}
	}
	return out, nil
}

func (r *memIdentityRepo) UpdatePresence(ctx context.Context, id string, p identity.Presence) error {
	if ident, ok := r.identities[id]; ok {
		ident.Presence = p
	}
	return nil
}

type memRelationshipRepo struct {
	requests    map[string]*identity.FriendRequest
	friendships []identity.Friendship
	nextID      int
}

func newMemRelationshipRepo() *memRelationshipRepo {
	return &memRelationshipRepo{requests: make(map[string]*identity.FriendRequest)}
}

func (r *memRelationshipRepo) FriendshipExists(ctx context.Context, a, b string) (bool, error) {
	for _, f := range r.friendships {
		if (f.UserID == a && f.FriendID == b) || (f.UserID == b && f.FriendID == a) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRelationshipRepo) PendingRequestExists(ctx context.Context, senderID, receiverID string) (bool, error) {
	for _, req := range r.requests {
		if req.SenderID == senderID && req.ReceiverID == receiverID && req.Status == identity.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRelationshipRepo) CreateRequest(ctx context.Context, senderID, receiverID string) (*identity.FriendRequest, error) {
	r.nextID++
	req := &identity.FriendRequest{
		ID:         strconv.Itoa(r.nextID),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     identity.RequestPending,
	}
	r.requests[req.ID] = req
	return req, nil
}

func (r *memRelationshipRepo) FindRequestByID(ctx context.Context, id string) (*identity.FriendRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	copied := *req
	return &copied, nil
}

func (r *memRelationshipRepo) ListPendingForReceiver(ctx context.Context, receiverID string) ([]identity.FriendRequest, error) {
	var out []identity.FriendRequest
	for _, req := range r.requests {
		if req.ReceiverID == receiverID && req.Status == identity.RequestPending {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *memRelationshipRepo) AcceptRequest(ctx context.Context, req identity.FriendRequest) error {
	stored, ok := r.requests[req.ID]
	if !ok {
		return errors.New("request not found")
	}
	stored.Status = identity.RequestAccepted
	r.friendships = append(r.friendships,
		identity.Friendship{UserID: req.SenderID, FriendID: req.ReceiverID, Status: identity.RequestAccepted},
		identity.Friendship{UserID: req.ReceiverID, FriendID: req.SenderID, Status: identity.RequestAccepted},
	)
	return nil
}

func (r *memRelationshipRepo) RejectRequest(ctx context.Context, id string) error {
	stored, ok := r.requests[id]
	if !ok {
		return errors.New("request not found")
	}
	stored.Status = identity.RequestRejected
	return nil
}

func (r *memRelationshipRepo) ListFriends(ctx context.Context, userID string) ([]identity.Identity, error) {
	var out []identity.Identity
	for _, f := range r.friendships {
		if f.UserID == userID {
			out = append(out, identity.Identity{ID: f.FriendID})
		}
	}
	return out, nil
}

func friendFixture() (*memIdentityRepo, *memRelationshipRepo) {
	idents := newMemIdentityRepo(
		&identity.Identity{ID: "u1", Username: "alice"},
		&identity.Identity{ID: "u2", Username: "bob"},
	)
	return idents, newMemRelationshipRepo()
}

func TestSendFriendRequest(t *testing.T) {
	idents, rels := friendFixture()
	uc := NewSendFriendRequestUseCase(idents, rels)

	req, err := uc.Execute(context.Background(), SendFriendRequestInput{SenderID: "u1", TargetID: "u2"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if req.Status != identity.RequestPending {
		t.Errorf("expected pending request, got %q", req.Status)
	}
	if req.SenderID != "u1" || req.ReceiverID != "u2" {
		t.Errorf("unexpected request endpoints: %+v", req)
	}
}

func TestSendFriendRequestToSelf(t *testing.T) {
	idents, rels := friendFixture()
	uc := NewSendFriendRequestUseCase(idents, rels)

	_, err := uc.Execute(context.Background(), SendFriendRequestInput{SenderID: "u1", TargetID: "u1"})
	if !errors.Is(err, identity.ErrSelfRequest) {
		t.Fatalf("expected ErrSelfRequest, got %v", err)
	}
}

func TestSendFriendRequestToUnknownTarget(t *testing.T) {
	idents, rels := friendFixture()
	uc := NewSendFriendRequestUseCase(idents, rels)

	_, err := uc.Execute(context.Background(), SendFriendRequestInput{SenderID: "u1", TargetID: "ghost"})
	if !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSendFriendRequestDuplicatePending(t *testing.T) {
	idents, rels := friendFixture()
	uc := NewSendFriendRequestUseCase(idents, rels)

	if _, err := uc.Execute(context.Background(), SendFriendRequestInput{SenderID: "u1", TargetID: "u2"}); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	_, err := uc.Execute(context.Background(), SendFriendRequestInput{SenderID: "u1", TargetID: "u2"})
	if !errors.Is(err, identity.ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest, got %v", err)
	}
}

func TestSendFriendRequestBetweenFriends(t *testing.T) {
	idents, rels := friendFixture()
	rels.friendships = append(rels.friendships,
		identity.Friendship{UserID: "u1", FriendID: "u2"},
		identity.Friendship{UserID: "u2", FriendID: "u1"},
	)
	uc := NewSendFriendRequestUseCase(idents, rels)

	_, err := uc.Execute(context.Background(), SendFriendRequestInput{SenderID: "u1", TargetID: "u2"})
	if !errors.Is(err, identity.ErrAlreadyFriends) {
		t.Fatalf("expected ErrAlreadyFriends, got %v", err)
	}

	// Friendship checks look in both directions.
	_, err = uc.Execute(context.Background(), SendFriendRequestInput{SenderID: "u2", TargetID: "u1"})
	if !errors.Is(err, identity.ErrAlreadyFriends) {
		t.Fatalf("expected ErrAlreadyFriends for reverse direction, got %v", err)
	}
}

func TestAcceptFriendRequestCreatesSymmetricRows(t *testing.T) {
	idents, rels := friendFixture()
	send := NewSendFriendRequestUseCase(idents, rels)
	resolve := NewResolveFriendRequestUseCase(rels)

	req, err := send.Execute(context.Background(), SendFriendRequestInput{SenderID: "u1", TargetID: "u2"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	resolved, err := resolve.Execute(context.Background(), ResolveFriendRequestInput{RequestID: req.ID, ActorID: "u2", Accept: true})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Status != identity.RequestAccepted {
		t.Errorf("expected accepted status, got %q", resolved.Status)
	}

	if len(rels.friendships) != 2 {
		t.Fatalf("expected 2 symmetric friendship rows, got %d", len(rels.friendships))
	}
	for _, pair := range [][2]string{{"u1", "u2"}, {"u2", "u1"}} {
		ok, _ := rels.FriendshipExists(context.Background(), pair[0], pair[1])
		if !ok {
			t.Errorf("missing friendship row %v", pair)
		}
	}

	// Friends cannot re-request each other.
	_, err = send.Execute(context.Background(), SendFriendRequestInput{SenderID: "u2", TargetID: "u1"})
	if !errors.Is(err, identity.ErrAlreadyFriends) {
		t.Errorf("expected ErrAlreadyFriends after acceptance, got %v", err)
	}
}

func TestRejectFriendRequestAllowsRetry(t *testing.T) {
	idents, rels := friendFixture()
	send := NewSendFriendRequestUseCase(idents, rels)
	resolve := NewResolveFriendRequestUseCase(rels)

	req, err := send.Execute(context.Background(), SendFriendRequestInput{SenderID: "u1", TargetID: "u2"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	resolved, err := resolve.Execute(context.Background(), ResolveFriendRequestInput{RequestID: req.ID, ActorID: "u2", Accept: false})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Status != identity.RequestRejected {
		t.Errorf("expected rejected status, got %q", resolved.Status)
	}
	if len(rels.friendships) != 0 {
		t.Errorf("rejection must not create friendship rows, got %d", len(rels.friendships))
	}

	// A rejected pair may try again.
	if _, err := send.Execute(context.Background(), SendFriendRequestInput{SenderID: "u1", TargetID: "u2"}); err != nil {
		t.Errorf("re-request after rejection failed: %v", err)
	}
}

func TestResolveFriendRequestOnlyByReceiver(t *testing.T) {
	idents, rels := friendFixture()
	send := NewSendFriendRequestUseCase(idents, rels)
	resolve := NewResolveFriendRequestUseCase(rels)

	req, err := send.Execute(context.Background(), SendFriendRequestInput{SenderID: "u1", TargetID: "u2"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	_, err = resolve.Execute(context.Background(), ResolveFriendRequestInput{RequestID: req.ID, ActorID: "u1", Accept: true})
	if !errors.Is(err, identity.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-receiver, got %v", err)
	}
}

func TestResolveUnknownFriendRequest(t *testing.T) {
	_, rels := friendFixture()
	resolve := NewResolveFriendRequestUseCase(rels)

	_, err := resolve.Execute(context.Background(), ResolveFriendRequestInput{RequestID: "999", ActorID: "u2", Accept: true})
	if !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPendingRequests(t *testing.T) {
	idents, rels := friendFixture()
	send := NewSendFriendRequestUseCase(idents, rels)
	list := NewListFriendRequestsUseCase(rels)

	if _, err := send.Execute(context.Background(), SendFriendRequestInput{SenderID: "u1", TargetID: "u2"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	reqs, err := list.Execute(context.Background(), "u2")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(reqs) != 1 || reqs[0].SenderID != "u1" {
		t.Errorf("unexpected pending requests: %+v", reqs)
	}

	reqs, err = list.Execute(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(reqs) != 0 {
		t.Errorf("sender must not see the request as addressed to them: %+v", reqs)
	}
}

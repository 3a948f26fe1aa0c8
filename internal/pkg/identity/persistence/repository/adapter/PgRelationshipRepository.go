package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	identity "go-parley/internal/pkg/identity/application/domain"
	repository "go-parley/internal/pkg/identity/persistence/repository/port"
)

type PgRelationshipRepository struct {
	pool *pgxpool.Pool
}

func NewPgRelationshipRepository(pool *pgxpool.Pool) *PgRelationshipRepository {
	return &PgRelationshipRepository{pool: pool}
}

var _ repository.RelationshipRepository = (*PgRelationshipRepository)(nil)

func (r *PgRelationshipRepository) FriendshipExists(ctx context.Context, a, b string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgRelationshipRepository: nil pool")
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chat.friends
			WHERE (user_id = $1::bigint AND friend_id = $2::bigint)
			   OR (user_id = $2::bigint AND friend_id = $1::bigint)
		)
	`, a, b).Scan(&exists)
	return exists, err
}

func (r *PgRelationshipRepository) PendingRequestExists(ctx context.Context, senderID, receiverID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgRelationshipRepository: nil pool")
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chat.friend_requests
			WHERE sender_id = $1::bigint AND receiver_id = $2::bigint AND status = 'pending'
		)
	`, senderID, receiverID).Scan(&exists)
	return exists, err
}

func (r *PgRelationshipRepository) CreateRequest(ctx context.Context, senderID, receiverID string) (*identity.FriendRequest, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgRelationshipRepository: nil pool")
	}
	req := identity.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     identity.RequestPending,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.friend_requests (sender_id, receiver_id, status, created_at)
		VALUES ($1::bigint, $2::bigint, 'pending', now())
		RETURNING id::text, created_at
	`, senderID, receiverID).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *PgRelationshipRepository) FindRequestByID(ctx context.Context, id string) (*identity.FriendRequest, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgRelationshipRepository: nil pool")
	}
	var req identity.FriendRequest
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, sender_id::text, receiver_id::text, status, created_at
		FROM chat.friend_requests
		WHERE id = $1::bigint
	`, id).Scan(&req.ID, &req.SenderID, &req.ReceiverID, &req.Status, &req.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *PgRelationshipRepository) ListPendingForReceiver(ctx context.Context, receiverID string) ([]identity.FriendRequest, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgRelationshipRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT fr.id::text, fr.sender_id::text, fr.receiver_id::text, fr.status, fr.created_at,
		       u.id::text, u.username, u.display_name
		FROM chat.friend_requests fr
		JOIN chat.users u ON u.id = fr.sender_id
		WHERE fr.receiver_id = $1::bigint AND fr.status = 'pending'
		ORDER BY fr.created_at
	`, receiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []identity.FriendRequest
	for rows.Next() {
		var req identity.FriendRequest
		var sender identity.Profile
		if err := rows.Scan(&req.ID, &req.SenderID, &req.ReceiverID, &req.Status, &req.CreatedAt,
			&sender.ID, &sender.Username, &sender.DisplayName); err != nil {
			return nil, err
		}
		req.Sender = &sender
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// AcceptRequest flips the request to accepted and inserts the symmetric
// friendship pair; all three writes commit or roll back together.
func (r *PgRelationshipRepository) AcceptRequest(ctx context.Context, req identity.FriendRequest) error {
	if r == nil || r.pool == nil {
		return errors.New("PgRelationshipRepository: nil pool")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
		UPDATE chat.friend_requests SET status = 'accepted' WHERE id = $1::bigint AND status = 'pending'
	`, req.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO chat.friends (user_id, friend_id, status, created_at)
		VALUES ($1::bigint, $2::bigint, 'accepted', now()),
		       ($2::bigint, $1::bigint, 'accepted', now())
	`, req.SenderID, req.ReceiverID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PgRelationshipRepository) RejectRequest(ctx context.Context, id string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgRelationshipRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.friend_requests SET status = 'rejected' WHERE id = $1::bigint AND status = 'pending'
	`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgRelationshipRepository) ListFriends(ctx context.Context, userID string) ([]identity.Identity, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgRelationshipRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT u.id::text, u.username, u.display_name, u.status
		FROM chat.friends f
		JOIN chat.users u ON u.id = f.friend_id
		WHERE f.user_id = $1::bigint AND f.status = 'accepted'
		ORDER BY u.username
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []identity.Identity
	for rows.Next() {
		var ident identity.Identity
		if err := rows.Scan(&ident.ID, &ident.Username, &ident.DisplayName, &ident.Presence); err != nil {
			return nil, err
		}
		friends = append(friends, ident)
	}
	return friends, rows.Err()
}

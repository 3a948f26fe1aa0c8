package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ repository.MessageRepository = (*PgMessageRepository)(nil)

func (r *PgMessageRepository) Append(ctx context.Context, m chat.Message) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.messages (sender_id, receiver_id, content)
		VALUES ($1::bigint, $2::bigint, $3)
		RETURNING id::text, timestamp
	`, m.SenderID, m.ReceiverID, m.Content).Scan(&m.ID, &m.Timestamp)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgMessageRepository) History(ctx context.Context, userID string, partnerID *string) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}

	var (
		rows pgx.Rows
		err  error
	)
	if partnerID == nil {
		rows, err = r.pool.Query(ctx, `
			SELECT m.id::text, m.sender_id::text, m.receiver_id::text, m.content, m.timestamp,
			       u.id::text, u.username, u.display_name
			FROM chat.messages m
			JOIN chat.users u ON u.id = m.sender_id
			WHERE m.receiver_id IS NULL
			ORDER BY m.timestamp
		`)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT m.id::text, m.sender_id::text, m.receiver_id::text, m.content, m.timestamp,
			       u.id::text, u.username, u.display_name
			FROM chat.messages m
			JOIN chat.users u ON u.id = m.sender_id
			WHERE (m.sender_id = $1::bigint AND m.receiver_id = $2::bigint)
			   OR (m.sender_id = $2::bigint AND m.receiver_id = $1::bigint)
			ORDER BY m.timestamp
		`, userID, *partnerID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var (
			msg    chat.Message
			sender chat.Peer
		)
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.Timestamp,
			&sender.ID, &sender.Username, &sender.DisplayName); err != nil {
			return nil, err
		}
		msg.Sender = &sender
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (r *PgMessageRepository) Sessions(ctx context.Context, userID string) ([]chat.Peer, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT u.id::text, u.username, u.display_name
		FROM chat.messages m
		JOIN chat.users u
		  ON u.id = CASE WHEN m.sender_id = $1::bigint THEN m.receiver_id ELSE m.sender_id END
		WHERE m.receiver_id IS NOT NULL
		  AND (m.sender_id = $1::bigint OR m.receiver_id = $1::bigint)
		ORDER BY u.username
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var peers []chat.Peer
	for rows.Next() {
		var p chat.Peer
		if err := rows.Scan(&p.ID, &p.Username, &p.DisplayName); err != nil {
			return nil, err
		}
		peers = append(peers, p)
	}
	return peers, rows.Err()
}

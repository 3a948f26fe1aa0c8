package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	identity "go-parley/internal/pkg/identity/application/domain"
	repository "go-parley/internal/pkg/identity/persistence/repository/port"
)

type PgIdentityRepository struct {
	pool *pgxpool.Pool
}

func NewPgIdentityRepository(pool *pgxpool.Pool) *PgIdentityRepository {
	return &PgIdentityRepository{pool: pool}
}

var _ repository.IdentityRepository = (*PgIdentityRepository)(nil)

func (r *PgIdentityRepository) Create(ctx context.Context, ident identity.Identity) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgIdentityRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.users (username, display_name, password_hash, status, created_at)
		VALUES ($1, $2, $3, 'offline', $4)
		RETURNING id::text
	`, ident.Username, ident.DisplayName, ident.PasswordHash, ident.CreatedAt).Scan(&id)
	return id, err
}

func (r *PgIdentityRepository) FindByID(ctx context.Context, id string) (*identity.Identity, error) {
	return r.findOne(ctx, `
		SELECT id::text, username, display_name, password_hash, status, created_at
		FROM chat.users
		WHERE id = $1::bigint
	`, id)
}

func (r *PgIdentityRepository) FindByUsername(ctx context.Context, username string) (*identity.Identity, error) {
	return r.findOne(ctx, `
		SELECT id::text, username, display_name, password_hash, status, created_at
		FROM chat.users
		WHERE username = $1
	`, username)
}

func (r *PgIdentityRepository) findOne(ctx context.Context, query string, arg any) (*identity.Identity, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgIdentityRepository: nil pool")
	}
	var ident identity.Identity
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&ident.ID, &ident.Username, &ident.DisplayName, &ident.PasswordHash, &ident.Presence, &ident.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ident, nil
}

func (r *PgIdentityRepository) Search(ctx context.Context, excludeID, term string) ([]identity.Identity, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgIdentityRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, username, display_name, status
		FROM chat.users
		WHERE id <> $1::bigint
		  AND ($2 = '' OR username ILIKE '%' || $2 || '%' OR display_name ILIKE '%' || $2 || '%')
		ORDER BY username
	`, excludeID, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var idents []identity.Identity
	for rows.Next() {
		var ident identity.Identity
		if err := rows.Scan(&ident.ID, &ident.Username, &ident.DisplayName, &ident.Presence); err != nil {
			return nil, err
		}
		idents = append(idents, ident)
	}
	return idents, rows.Err()
}

func (r *PgIdentityRepository) UpdatePresence(ctx context.Context, id string, p identity.Presence) error {
	if r == nil || r.pool == nil {
		return errors.New("PgIdentityRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.users SET status = $2 WHERE id = $1::bigint
	`, id, p)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tradefair/internal/domain"
)

type authSessionRepository struct {
	DB *sql.DB
}

// NewAuthSessionRepository returns a domain.AuthSessionRepository implemented with Postgres.
func NewAuthSessionRepository(db *sql.DB) domain.AuthSessionRepository {
	return &authSessionRepository{DB: db}
}

func (r *authSessionRepository) Create(ctx context.Context, s *domain.AuthSession) error {
	query := `
		INSERT INTO auth_sessions (id, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.DB.ExecContext(ctx, query, s.ID, s.UserID, s.ExpiresAt, s.CreatedAt)
	return classify("auth_sessions.create", err)
}

func (r *authSessionRepository) GetByID(ctx context.Context, id string) (*domain.AuthSession, error) {
	query := `
		SELECT s.id, s.user_id, i.email, s.expires_at, s.revoked_at, s.created_at
		FROM auth_sessions s
		JOIN identities i ON i.id = s.user_id
		WHERE s.id = $1
	`
	s := &domain.AuthSession{}
	var revokedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.UserID, &s.Email, &s.ExpiresAt, &revokedAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if revokedAt.Valid {
		s.RevokedAt = &revokedAt.Time
	}
	return s, nil
}

func (r *authSessionRepository) Revoke(ctx context.Context, id string) error {
	query := `UPDATE auth_sessions SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL`
	_, err := r.DB.ExecContext(ctx, query, id)
	return classify("auth_sessions.revoke", err)
}

func (r *authSessionRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	query := `UPDATE auth_sessions SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`
	_, err := r.DB.ExecContext(ctx, query, userID)
	return classify("auth_sessions.revoke_all", err)
}

func (r *authSessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM auth_sessions WHERE expires_at < $1 OR revoked_at < $1`
	result, err := r.DB.ExecContext(ctx, query, before)
	if err != nil {
		return 0, classify("auth_sessions.delete_expired", err)
	}
	return result.RowsAffected()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tradefair/internal/domain"
)

type passwordResetRepository struct {
	DB *sql.DB
}

// NewPasswordResetRepository returns a domain.PasswordResetRepository implemented with Postgres.
func NewPasswordResetRepository(db *sql.DB) domain.PasswordResetRepository {
	return &passwordResetRepository{DB: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO password_reset_codes (email, code_hash, expires_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, email, codeHash, expiresAt)
	return classify("password_reset_codes.create", err)
}

// Consume deletes the matching unexpired code and reports whether one existed.
func (r *passwordResetRepository) Consume(ctx context.Context, email, codeHash string) (bool, error) {
	query := `
		DELETE FROM password_reset_codes
		WHERE id = (
			SELECT id FROM password_reset_codes
			WHERE email = $1 AND code_hash = $2 AND expires_at > NOW()
			LIMIT 1
		)
		RETURNING id
	`
	var id string
	err := r.DB.QueryRowContext(ctx, query, email, codeHash).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, classify("password_reset_codes.consume", err)
	}
	return true, nil
}

func (r *passwordResetRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM password_reset_codes WHERE expires_at < $1`, before)
	if err != nil {
		return 0, classify("password_reset_codes.delete_expired", err)
	}
	return result.RowsAffected()
}

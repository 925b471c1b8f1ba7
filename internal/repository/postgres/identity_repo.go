package postgres

import (
	"context"
	"database/sql"
	"errors"

	"tradefair/internal/domain"
)

type identityRepository struct {
	DB *sql.DB
}

// NewIdentityRepository returns a domain.IdentityRepository implemented with Postgres.
func NewIdentityRepository(db *sql.DB) domain.IdentityRepository {
	return &identityRepository{DB: db}
}

func (r *identityRepository) Create(ctx context.Context, u *domain.Identity) error {
	query := `
		INSERT INTO identities (email, password_hash, salt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, u.Email, u.PasswordHash, u.Salt, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		if isKind(err, domain.KindUniqueViolation) {
			return domain.ErrDuplicateEmail
		}
		return classify("identities.create", err)
	}
	return nil
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	query := `
		SELECT id, email, password_hash, salt, created_at, updated_at
		FROM identities
		WHERE email = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	query := `
		SELECT id, email, password_hash, salt, created_at, updated_at
		FROM identities
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *identityRepository) scanOne(row *sql.Row) (*domain.Identity, error) {
	u := &domain.Identity{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Salt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *identityRepository) UpdateEmail(ctx context.Context, id, email string) error {
	query := `UPDATE identities SET email = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, email, id)
	if err != nil {
		if isKind(err, domain.KindUniqueViolation) {
			return domain.ErrDuplicateEmail
		}
		return classify("identities.update_email", err)
	}
	return requireAffected(result)
}

func (r *identityRepository) UpdatePassword(ctx context.Context, id, passwordHash, salt string) error {
	query := `UPDATE identities SET password_hash = $1, salt = $2, updated_at = NOW() WHERE id = $3`
	result, err := r.DB.ExecContext(ctx, query, passwordHash, salt, id)
	if err != nil {
		return classify("identities.update_password", err)
	}
	return requireAffected(result)
}

func (r *identityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM identities WHERE id = $1`, id)
	if err != nil {
		return classify("identities.delete", err)
	}
	return requireAffected(result)
}

func (r *identityRepository) DeleteAccount(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `SELECT delete_user_account($1)`, id)
	return classify("identities.delete_account", err)
}

// requireAffected maps a zero-row write to domain.ErrNotFound.
func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

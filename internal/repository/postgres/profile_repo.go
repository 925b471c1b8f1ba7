package postgres

import (
	"context"
	"database/sql"
	"errors"

	"tradefair/internal/domain"
)

const profileColumns = `id, email, role, first_name, last_name, company, phone, created_at, updated_at`

type profileRepository struct {
	DB *sql.DB
}

// NewProfileRepository returns a domain.ProfileRepository implemented with Postgres.
func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	p := &domain.Profile{}
	var role string
	var company, phone sql.NullString
	if err := row.Scan(&p.ID, &p.Email, &role, &p.FirstName, &p.LastName, &company, &phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Role = domain.Role(role)
	p.Company = nullStringPtr(company)
	p.Phone = nullStringPtr(phone)
	return p, nil
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `SELECT ` + profileColumns + ` FROM create_user_profile($1, $2, $3, $4, $5, $6)`
	created, err := scanProfile(r.DB.QueryRowContext(ctx, query, p.ID, p.FirstName, p.LastName, string(p.Role), p.Company, p.Phone))
	if err != nil {
		return classify("profiles.create", err)
	}
	*p = *created
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM profiles WHERE lower(email) = lower($1))`
	if err := r.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *profileRepository) Update(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	query := `
		UPDATE profiles
		SET first_name = COALESCE($2, first_name),
		    last_name = COALESCE($3, last_name),
		    company = COALESCE($4, company),
		    phone = COALESCE($5, phone),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns
	p, err := scanProfile(r.DB.QueryRowContext(ctx, query, id, upd.FirstName, upd.LastName, upd.Company, upd.Phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, classify("profiles.update", err)
	}
	return p, nil
}

func (r *profileRepository) UpdateEmail(ctx context.Context, id, email string) error {
	query := `UPDATE profiles SET email = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.DB.ExecContext(ctx, query, email, id)
	return classify("profiles.update_email", err)
}

func (r *profileRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.Profile, error) {
	query := `
		UPDATE profiles SET role = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns
	p, err := scanProfile(r.DB.QueryRowContext(ctx, query, id, string(role)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, classify("profiles.update_role", err)
	}
	return p, nil
}

func (r *profileRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Profile, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	profiles, err := r.query(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func (r *profileRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE role = $1
		ORDER BY last_name, first_name
	`
	return r.query(ctx, query, string(role))
}

func (r *profileRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Profile, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	profiles := make([]*domain.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

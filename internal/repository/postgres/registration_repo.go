package postgres

import (
	"context"
	"database/sql"

	"tradefair/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

// NewRegistrationRepository returns a domain.RegistrationRepository implemented with Postgres.
func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

func (r *registrationRepository) Create(ctx context.Context, userID, conferenceID string) (*domain.Registration, error) {
	query := `
		INSERT INTO registrations (user_id, conference_id)
		VALUES ($1, $2)
		RETURNING id, user_id, conference_id, created_at
	`
	reg := &domain.Registration{}
	err := r.DB.QueryRowContext(ctx, query, userID, conferenceID).Scan(&reg.ID, &reg.UserID, &reg.ConferenceID, &reg.CreatedAt)
	if err != nil {
		if isKind(err, domain.KindUniqueViolation) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, classify("registrations.create", err)
	}
	return reg, nil
}

// Delete removes the (user, conference) row. A missing row is not an error.
func (r *registrationRepository) Delete(ctx context.Context, userID, conferenceID string) error {
	query := `DELETE FROM registrations WHERE user_id = $1 AND conference_id = $2`
	_, err := r.DB.ExecContext(ctx, query, userID, conferenceID)
	return classify("registrations.delete", err)
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Registration, error) {
	query := `
		SELECT reg.id, reg.user_id, reg.conference_id, reg.created_at, ` + conferenceColumns + `
		FROM registrations reg
		JOIN conferences c ON c.id = reg.conference_id ` + conferenceJoins + `
		WHERE reg.user_id = $1
		ORDER BY reg.created_at, reg.id
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		c, err := scanConference(rows, &reg.ID, &reg.UserID, &reg.ConferenceID, &reg.CreatedAt)
		if err != nil {
			return nil, err
		}
		reg.Conference = c
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *registrationRepository) ListByConference(ctx context.Context, conferenceID string) ([]*domain.RegistrationWithProfile, error) {
	query := `
		SELECT reg.id, reg.user_id, reg.conference_id, reg.created_at,
		       p.id, p.email, p.role, p.first_name, p.last_name, p.company, p.phone, p.created_at, p.updated_at
		FROM registrations reg
		JOIN profiles p ON p.id = reg.user_id
		WHERE reg.conference_id = $1
		ORDER BY reg.created_at, reg.id
	`
	rows, err := r.DB.QueryContext(ctx, query, conferenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.RegistrationWithProfile, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		p := &domain.Profile{}
		var role string
		var company, phone sql.NullString
		if err := rows.Scan(&reg.ID, &reg.UserID, &reg.ConferenceID, &reg.CreatedAt,
			&p.ID, &p.Email, &role, &p.FirstName, &p.LastName, &company, &phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Role = domain.Role(role)
		p.Company = nullStringPtr(company)
		p.Phone = nullStringPtr(phone)
		out = append(out, &domain.RegistrationWithProfile{Registration: reg, Profile: p})
	}
	return out, rows.Err()
}

func (r *registrationRepository) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	query := `SELECT id, user_id, conference_id, created_at FROM registrations ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		if err := rows.Scan(&reg.ID, &reg.UserID, &reg.ConferenceID, &reg.CreatedAt); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// Replace calls replace_user_registration. Errors are classified so the caller can tell
// business failures (KindNotFound, KindUniqueViolation, KindForeignKeyViolation) from
// infrastructure failures.
func (r *registrationRepository) Replace(ctx context.Context, userID, oldConferenceID, newConferenceID string) (*domain.Registration, error) {
	query := `SELECT id, user_id, conference_id, created_at FROM replace_user_registration($1, $2, $3)`
	reg := &domain.Registration{}
	err := r.DB.QueryRowContext(ctx, query, userID, oldConferenceID, newConferenceID).Scan(&reg.ID, &reg.UserID, &reg.ConferenceID, &reg.CreatedAt)
	if err != nil {
		return nil, classify("registrations.replace", err)
	}
	return reg, nil
}

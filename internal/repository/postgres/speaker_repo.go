package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tradefair/internal/domain"
)

type speakerRepository struct {
	DB *sql.DB
}

// NewSpeakerRepository returns a domain.SpeakerRepository implemented with Postgres.
func NewSpeakerRepository(db *sql.DB) domain.SpeakerRepository {
	return &speakerRepository{DB: db}
}

func (r *speakerRepository) Create(ctx context.Context, s *domain.Speaker) error {
	query := `
		INSERT INTO speakers (name, photo, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, s.Name, s.Photo, s.Bio, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
	return classify("speakers.create", err)
}

func (r *speakerRepository) GetByID(ctx context.Context, id string) (*domain.Speaker, error) {
	query := `SELECT id, name, photo, bio, created_at, updated_at FROM speakers WHERE id = $1`
	s := &domain.Speaker{}
	var photo, bio sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &photo, &bio, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	s.Photo = nullStringPtr(photo)
	s.Bio = nullStringPtr(bio)
	return s, nil
}

func (r *speakerRepository) List(ctx context.Context) ([]*domain.Speaker, error) {
	query := `SELECT id, name, photo, bio, created_at, updated_at FROM speakers ORDER BY name`
	return r.query(ctx, query)
}

// Search matches term anywhere in the speaker name, case-insensitively.
func (r *speakerRepository) Search(ctx context.Context, term string) ([]*domain.Speaker, error) {
	query := `
		SELECT id, name, photo, bio, created_at, updated_at
		FROM speakers
		WHERE name ILIKE $1
		ORDER BY name
	`
	return r.query(ctx, query, likePattern(term))
}

func (r *speakerRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Speaker, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	speakers := make([]*domain.Speaker, 0)
	for rows.Next() {
		s := &domain.Speaker{}
		var photo, bio sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &photo, &bio, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Photo = nullStringPtr(photo)
		s.Bio = nullStringPtr(bio)
		speakers = append(speakers, s)
	}
	return speakers, rows.Err()
}

func (r *speakerRepository) Update(ctx context.Context, s *domain.Speaker) error {
	query := `
		UPDATE speakers
		SET name = $2, photo = $3, bio = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, s.ID, s.Name, s.Photo, s.Bio, s.UpdatedAt)
	if err != nil {
		return classify("speakers.update", err)
	}
	return requireAffected(result)
}

func (r *speakerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM speakers WHERE id = $1`, id)
	if err != nil {
		if isKind(err, domain.KindForeignKeyViolation) {
			return domain.ErrSpeakerInUse
		}
		return classify("speakers.delete", err)
	}
	return requireAffected(result)
}

// likePattern wraps term in % after escaping LIKE metacharacters.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(term)) + "%"
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tradefair/internal/domain"
)

const conferenceColumns = `
	c.id, c.title, c.description, c.speaker_id, c.room_id, c.time_slot_id, c.sponsor_id, c.created_at, c.updated_at,
	s.id, s.name, s.photo, s.bio, s.created_at, s.updated_at,
	rm.id, rm.name, rm.description, rm.created_at,
	t.id, t.day, t.start_time, t.end_time`

const conferenceJoins = `
	JOIN speakers s ON s.id = c.speaker_id
	JOIN rooms rm ON rm.id = c.room_id
	JOIN time_slots t ON t.id = c.time_slot_id`

// conferenceSelect joins each conference with its speaker, room and time slot.
const conferenceSelect = `SELECT ` + conferenceColumns + ` FROM conferences c ` + conferenceJoins

type conferenceRepository struct {
	DB *sql.DB
}

// NewConferenceRepository returns a domain.ConferenceRepository implemented with Postgres.
func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{DB: db}
}

// scanConference scans the conferenceSelect columns, after any leading destinations.
func scanConference(row rowScanner, leading ...any) (*domain.Conference, error) {
	c := &domain.Conference{Speaker: &domain.Speaker{}, Room: &domain.Room{}, TimeSlot: &domain.TimeSlot{}}
	var sponsorID, photo, bio, roomDescription sql.NullString
	dest := append(leading,
		&c.ID, &c.Title, &c.Description, &c.SpeakerID, &c.RoomID, &c.TimeSlotID, &sponsorID, &c.CreatedAt, &c.UpdatedAt,
		&c.Speaker.ID, &c.Speaker.Name, &photo, &bio, &c.Speaker.CreatedAt, &c.Speaker.UpdatedAt,
		&c.Room.ID, &c.Room.Name, &roomDescription, &c.Room.CreatedAt,
		&c.TimeSlot.ID, &c.TimeSlot.Day, &c.TimeSlot.StartTime, &c.TimeSlot.EndTime,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	c.SponsorID = nullStringPtr(sponsorID)
	c.Speaker.Photo = nullStringPtr(photo)
	c.Speaker.Bio = nullStringPtr(bio)
	c.Room.Description = nullStringPtr(roomDescription)
	return c, nil
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	query := `
		INSERT INTO conferences (title, description, speaker_id, room_id, time_slot_id, sponsor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, c.Title, c.Description, c.SpeakerID, c.RoomID, c.TimeSlotID, c.SponsorID, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		if isKind(err, domain.KindUniqueViolation) {
			return domain.ErrSlotUnavailable
		}
		return classify("conferences.create", err)
	}
	return nil
}

func (r *conferenceRepository) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	c, err := scanConference(r.DB.QueryRowContext(ctx, conferenceSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *conferenceRepository) List(ctx context.Context, filter domain.ConferenceFilter) ([]*domain.Conference, error) {
	var conds []string
	var args []any
	if filter.Day > 0 {
		args = append(args, filter.Day)
		conds = append(conds, fmt.Sprintf("t.day = $%d", len(args)))
	}
	if filter.RoomID > 0 {
		args = append(args, filter.RoomID)
		conds = append(conds, fmt.Sprintf("c.room_id = $%d", len(args)))
	}
	if filter.SpeakerName != "" {
		args = append(args, filter.SpeakerName)
		conds = append(conds, fmt.Sprintf("s.name = $%d", len(args)))
	}
	if strings.TrimSpace(filter.Search) != "" {
		args = append(args, likePattern(filter.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(c.title ILIKE $%d OR c.description ILIKE $%d OR s.name ILIKE $%d)", n, n, n))
	}
	query := conferenceSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if filter.OldestFirst {
		query += " ORDER BY c.created_at ASC, c.id"
	} else {
		query += " ORDER BY c.created_at DESC, c.id"
	}
	return r.query(ctx, query, args...)
}

func (r *conferenceRepository) ListByRoom(ctx context.Context, roomID int64) ([]*domain.Conference, error) {
	return r.query(ctx, conferenceSelect+` WHERE c.room_id = $1 ORDER BY t.day, t.start_time`, roomID)
}

func (r *conferenceRepository) ListBySponsor(ctx context.Context, sponsorID string) ([]*domain.Conference, error) {
	return r.query(ctx, conferenceSelect+` WHERE c.sponsor_id = $1 ORDER BY t.day, t.start_time`, sponsorID)
}

func (r *conferenceRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Conference, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	conferences := make([]*domain.Conference, 0)
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		conferences = append(conferences, c)
	}
	return conferences, rows.Err()
}

func (r *conferenceRepository) Update(ctx context.Context, c *domain.Conference) error {
	query := `
		UPDATE conferences
		SET title = $2, description = $3, speaker_id = $4, room_id = $5, time_slot_id = $6, sponsor_id = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, c.ID, c.Title, c.Description, c.SpeakerID, c.RoomID, c.TimeSlotID, c.SponsorID, c.UpdatedAt)
	if err != nil {
		if isKind(err, domain.KindUniqueViolation) {
			return domain.ErrSlotUnavailable
		}
		return classify("conferences.update", err)
	}
	return requireAffected(result)
}

func (r *conferenceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM conferences WHERE id = $1`, id)
	if err != nil {
		return classify("conferences.delete", err)
	}
	return requireAffected(result)
}

func (r *conferenceRepository) CountInSlot(ctx context.Context, roomID, timeSlotID int64, excludeID string) (int, error) {
	query := `SELECT COUNT(*) FROM conferences WHERE room_id = $1 AND time_slot_id = $2`
	args := []any{roomID, timeSlotID}
	if excludeID != "" {
		query += ` AND id <> $3`
		args = append(args, excludeID)
	}
	var n int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, classify("conferences.count_in_slot", err)
	}
	return n, nil
}

func (r *conferenceRepository) CountBySpeaker(ctx context.Context, speakerID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM conferences WHERE speaker_id = $1`, speakerID).Scan(&n)
	if err != nil {
		return 0, classify("conferences.count_by_speaker", err)
	}
	return n, nil
}

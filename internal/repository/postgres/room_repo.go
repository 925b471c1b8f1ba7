package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tradefair/internal/domain"
)

type roomRepository struct {
	DB *sql.DB
}

// NewRoomRepository returns a domain.RoomRepository implemented with Postgres.
func NewRoomRepository(db *sql.DB) domain.RoomRepository {
	return &roomRepository{DB: db}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	query := `
		INSERT INTO rooms (name, description, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, room.Name, room.Description, room.CreatedAt).Scan(&room.ID)
	if err != nil {
		if isKind(err, domain.KindUniqueViolation) {
			return fmt.Errorf("%w: room name already exists", domain.ErrInvalidInput)
		}
		return classify("rooms.create", err)
	}
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	room := &domain.Room{}
	var description sql.NullString
	query := `SELECT id, name, description, created_at FROM rooms WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&room.ID, &room.Name, &description, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	room.Description = nullStringPtr(description)
	return room, nil
}

func (r *roomRepository) List(ctx context.Context) ([]*domain.Room, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, description, created_at FROM rooms ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		room := &domain.Room{}
		var description sql.NullString
		if err := rows.Scan(&room.ID, &room.Name, &description, &room.CreatedAt); err != nil {
			return nil, err
		}
		room.Description = nullStringPtr(description)
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

type timeSlotRepository struct {
	DB *sql.DB
}

// NewTimeSlotRepository returns a domain.TimeSlotRepository implemented with Postgres.
func NewTimeSlotRepository(db *sql.DB) domain.TimeSlotRepository {
	return &timeSlotRepository{DB: db}
}

func (r *timeSlotRepository) Create(ctx context.Context, slot *domain.TimeSlot) error {
	query := `
		INSERT INTO time_slots (day, start_time, end_time)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, slot.Day, slot.StartTime, slot.EndTime).Scan(&slot.ID)
	if err != nil {
		switch domain.KindOf(classify("", err)) {
		case domain.KindUniqueViolation:
			return fmt.Errorf("%w: a time slot already starts at %s on day %d", domain.ErrInvalidInput, slot.StartTime, slot.Day)
		case domain.KindCheckViolation:
			return fmt.Errorf("%w: invalid time slot", domain.ErrInvalidInput)
		}
		return classify("time_slots.create", err)
	}
	return nil
}

func (r *timeSlotRepository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	slot := &domain.TimeSlot{}
	query := `SELECT id, day, start_time, end_time FROM time_slots WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&slot.ID, &slot.Day, &slot.StartTime, &slot.EndTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return slot, nil
}

func (r *timeSlotRepository) List(ctx context.Context) ([]*domain.TimeSlot, error) {
	query := `SELECT id, day, start_time, end_time FROM time_slots ORDER BY day, start_time`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]*domain.TimeSlot, 0)
	for rows.Next() {
		slot := &domain.TimeSlot{}
		if err := rows.Scan(&slot.ID, &slot.Day, &slot.StartTime, &slot.EndTime); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

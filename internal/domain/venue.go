package domain

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// Event days run from FirstDay to LastDay inclusive.
const (
	FirstDay = 1
	LastDay  = 3
)

// ClockLayout is the time.Format layout of time slot start and end times.
const ClockLayout = "15:04"

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Room is a physical room where conferences take place.
// swagger:model Room
type Room struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRoom returns a new Room. ID is set by the repository on create.
func NewRoom(name string, description *string, createdAt time.Time) *Room {
	return &Room{Name: name, Description: description, CreatedAt: createdAt}
}

// TimeSlot is a (day, start, end) window. Times are "HH:MM" strings.
// swagger:model TimeSlot
type TimeSlot struct {
	ID        int64  `json:"id"`
	Day       int    `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// NewTimeSlot returns a TimeSlot after checking day range and time format.
func NewTimeSlot(day int, startTime, endTime string) (*TimeSlot, error) {
	if day < FirstDay || day > LastDay {
		return nil, fmt.Errorf("%w: day must be between %d and %d", ErrInvalidInput, FirstDay, LastDay)
	}
	if !clockRegex.MatchString(startTime) || !clockRegex.MatchString(endTime) {
		return nil, fmt.Errorf("%w: times must use HH:MM", ErrInvalidInput)
	}
	// HH:MM compares correctly as a string.
	if startTime >= endTime {
		return nil, fmt.Errorf("%w: start_time must be before end_time", ErrInvalidInput)
	}
	return &TimeSlot{Day: day, StartTime: startTime, EndTime: endTime}, nil
}

// SlotAvailability reports whether a room is free during a time slot.
// swagger:model SlotAvailability
type SlotAvailability struct {
	TimeSlot  *TimeSlot `json:"time_slot"`
	Available bool      `json:"available"`
}

// RoomRepository defines storage operations for rooms.
type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id int64) (*Room, error)
	List(ctx context.Context) ([]*Room, error)
}

// TimeSlotRepository defines storage operations for time slots.
type TimeSlotRepository interface {
	Create(ctx context.Context, slot *TimeSlot) error
	GetByID(ctx context.Context, id int64) (*TimeSlot, error)
	List(ctx context.Context) ([]*TimeSlot, error)
}

// VenueService manages the fixed set of rooms and time slots.
type VenueService interface {
	ListRooms(ctx context.Context) ([]*Room, error)
	CreateRoom(ctx context.Context, room *Room) error
	ListTimeSlots(ctx context.Context) ([]*TimeSlot, error)
	CreateTimeSlot(ctx context.Context, day int, startTime, endTime string) (*TimeSlot, error)
}

// AvailabilityService answers whether a room is free for a time slot.
// Answers are point-in-time reads; a concurrent write can still claim the slot.
type AvailabilityService interface {
	IsSlotAvailable(ctx context.Context, roomID, timeSlotID int64, excludeConferenceID string) (bool, error)
	RoomAvailability(ctx context.Context, roomID int64) ([]*SlotAvailability, error)
}

package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Conference is a talk held by a speaker in a room during a time slot.
// Speaker, Room and TimeSlot are populated by read queries.
// swagger:model Conference
type Conference struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SpeakerID   string    `json:"speaker_id"`
	RoomID      int64     `json:"room_id"`
	TimeSlotID  int64     `json:"time_slot_id"`
	SponsorID   *string   `json:"sponsor_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Speaker     *Speaker  `json:"speaker,omitempty"`
	Room        *Room     `json:"room,omitempty"`
	TimeSlot    *TimeSlot `json:"time_slot,omitempty"`
}

// ConferenceInput holds the writable fields of a conference.
type ConferenceInput struct {
	Title       string
	Description string
	SpeakerID   string
	RoomID      int64
	TimeSlotID  int64
	SponsorID   *string
}

// Validate trims text fields and checks required values.
func (in *ConferenceInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.SpeakerID == "" {
		missing = append(missing, "speaker_id")
	}
	if in.RoomID <= 0 {
		missing = append(missing, "room_id")
	}
	if in.TimeSlotID <= 0 {
		missing = append(missing, "time_slot_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// NewConference builds a Conference from validated input.
func NewConference(in ConferenceInput, createdAt, updatedAt time.Time) *Conference {
	return &Conference{
		Title:       in.Title,
		Description: in.Description,
		SpeakerID:   in.SpeakerID,
		RoomID:      in.RoomID,
		TimeSlotID:  in.TimeSlotID,
		SponsorID:   in.SponsorID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// ConferenceFilter narrows conference listings. Zero values disable a filter.
// Search matches title, description and speaker name case-insensitively.
type ConferenceFilter struct {
	Day         int
	RoomID      int64
	SpeakerName string
	Search      string
	OldestFirst bool
}

// ConferenceRepository defines storage operations for conferences.
type ConferenceRepository interface {
	Create(ctx context.Context, c *Conference) error
	GetByID(ctx context.Context, id string) (*Conference, error)
	List(ctx context.Context, filter ConferenceFilter) ([]*Conference, error)
	ListByRoom(ctx context.Context, roomID int64) ([]*Conference, error)
	ListBySponsor(ctx context.Context, sponsorID string) ([]*Conference, error)
	Update(ctx context.Context, c *Conference) error
	Delete(ctx context.Context, id string) error
	// CountInSlot counts conferences in (room, slot), ignoring excludeID when non-empty.
	CountInSlot(ctx context.Context, roomID, timeSlotID int64, excludeID string) (int, error)
	CountBySpeaker(ctx context.Context, speakerID string) (int, error)
}

// ConferenceService defines conference management.
type ConferenceService interface {
	List(ctx context.Context, filter ConferenceFilter) ([]*Conference, error)
	ListByRoom(ctx context.Context, roomID int64) ([]*Conference, error)
	Get(ctx context.Context, id string) (*Conference, error)
	Create(ctx context.Context, in ConferenceInput) (*Conference, error)
	// Update applies in to the conference. Organizers may edit any conference,
	// sponsors only the ones they sponsor.
	Update(ctx context.Context, caller *Principal, id string, in ConferenceInput) (*Conference, error)
	Delete(ctx context.Context, id string) error
	ListRegistrations(ctx context.Context, conferenceID string) ([]*RegistrationWithProfile, error)
}

package domain

import (
	"context"
	"time"
)

// Speaker is a person presenting one or more conferences.
// swagger:model Speaker
type Speaker struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Photo     *string   `json:"photo,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSpeaker returns a new Speaker. ID is typically set by the repository on create.
func NewSpeaker(name string, photo, bio *string, createdAt, updatedAt time.Time) *Speaker {
	return &Speaker{
		Name:      name,
		Photo:     photo,
		Bio:       bio,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// SpeakerUpdate holds optional speaker changes. Nil fields are unchanged.
type SpeakerUpdate struct {
	Name  *string
	Photo *string
	Bio   *string
}

// SpeakerRepository defines storage operations for speakers.
type SpeakerRepository interface {
	Create(ctx context.Context, s *Speaker) error
	GetByID(ctx context.Context, id string) (*Speaker, error)
	List(ctx context.Context) ([]*Speaker, error)
	Search(ctx context.Context, term string) ([]*Speaker, error)
	Update(ctx context.Context, s *Speaker) error
	Delete(ctx context.Context, id string) error
}

// SpeakerService defines speaker management.
type SpeakerService interface {
	List(ctx context.Context) ([]*Speaker, error)
	Search(ctx context.Context, term string) ([]*Speaker, error)
	Get(ctx context.Context, id string) (*Speaker, error)
	Create(ctx context.Context, s *Speaker) error
	Update(ctx context.Context, id string, upd SpeakerUpdate) (*Speaker, error)
	// Delete rejects with ErrSpeakerInUse while any conference references the speaker.
	Delete(ctx context.Context, id string) error
}

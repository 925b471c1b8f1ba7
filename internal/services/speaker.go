package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tradefair/internal/domain"
)

type speakerService struct {
	speakerRepo    domain.SpeakerRepository
	conferenceRepo domain.ConferenceRepository
	contextTimeout time.Duration
}

// NewSpeakerService returns a SpeakerService. The conference repository backs the delete guard.
func NewSpeakerService(speakerRepo domain.SpeakerRepository, conferenceRepo domain.ConferenceRepository, timeout time.Duration) domain.SpeakerService {
	return &speakerService{
		speakerRepo:    speakerRepo,
		conferenceRepo: conferenceRepo,
		contextTimeout: timeout,
	}
}

func (s *speakerService) List(ctx context.Context) ([]*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	speakers, err := s.speakerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	return speakers, nil
}

// Search falls back to List for a blank term.
func (s *speakerService) Search(ctx context.Context, term string) ([]*domain.Speaker, error) {
	if strings.TrimSpace(term) == "" {
		return s.List(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	speakers, err := s.speakerRepo.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search speakers: %w", err)
	}
	return speakers, nil
}

func (s *speakerService) Get(ctx context.Context, id string) (*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	speaker, err := s.speakerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}
	return speaker, nil
}

func (s *speakerService) Create(ctx context.Context, speaker *domain.Speaker) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	speaker.Name = strings.TrimSpace(speaker.Name)
	if speaker.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	now := time.Now()
	speaker.CreatedAt = now
	speaker.UpdatedAt = now
	if err := s.speakerRepo.Create(ctx, speaker); err != nil {
		return fmt.Errorf("create speaker: %w", err)
	}
	return nil
}

func (s *speakerService) Update(ctx context.Context, id string, upd domain.SpeakerUpdate) (*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	speaker, err := s.speakerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		speaker.Name = name
	}
	if upd.Photo != nil {
		speaker.Photo = upd.Photo
	}
	if upd.Bio != nil {
		speaker.Bio = upd.Bio
	}
	speaker.UpdatedAt = time.Now()
	if err := s.speakerRepo.Update(ctx, speaker); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update speaker: %w", err)
	}
	return speaker, nil
}

// Delete refuses while conferences still reference the speaker.
func (s *speakerService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	n, err := s.conferenceRepo.CountBySpeaker(ctx, id)
	if err != nil {
		return fmt.Errorf("count speaker conferences: %w", err)
	}
	if n > 0 {
		return domain.ErrSpeakerInUse
	}
	if err := s.speakerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrSpeakerInUse) {
			return err
		}
		return fmt.Errorf("delete speaker: %w", err)
	}
	return nil
}

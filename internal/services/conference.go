package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tradefair/internal/domain"
)

type conferenceService struct {
	conferenceRepo   domain.ConferenceRepository
	registrationRepo domain.RegistrationRepository
	availability     domain.AvailabilityService
	contextTimeout   time.Duration
}

// NewConferenceService returns a ConferenceService. Writes are checked against availability first.
func NewConferenceService(
	conferenceRepo domain.ConferenceRepository,
	registrationRepo domain.RegistrationRepository,
	availability domain.AvailabilityService,
	timeout time.Duration,
) domain.ConferenceService {
	return &conferenceService{
		conferenceRepo:   conferenceRepo,
		registrationRepo: registrationRepo,
		availability:     availability,
		contextTimeout:   timeout,
	}
}

func (s *conferenceService) List(ctx context.Context, filter domain.ConferenceFilter) ([]*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conferences, err := s.conferenceRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	return conferences, nil
}

func (s *conferenceService) ListByRoom(ctx context.Context, roomID int64) ([]*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conferences, err := s.conferenceRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list room conferences: %w", err)
	}
	return conferences, nil
}

func (s *conferenceService) Get(ctx context.Context, id string) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.conferenceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return c, nil
}

func (s *conferenceService) Create(ctx context.Context, in domain.ConferenceInput) (*domain.Conference, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireFreeSlot(ctx, in.RoomID, in.TimeSlotID, ""); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := time.Now()
	c := domain.NewConference(in, now, now)
	if err := s.conferenceRepo.Create(ctx, c); err != nil {
		return nil, mapConferenceWriteError("create conference", err)
	}
	return c, nil
}

func (s *conferenceService) Update(ctx context.Context, caller *domain.Principal, id string, in domain.ConferenceInput) (*domain.Conference, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case caller.Can(domain.CapManageConferences):
	case caller.Can(domain.CapEditSponsoredConferences) && existing.SponsorID != nil && *existing.SponsorID == caller.UserID:
		// Sponsors cannot hand a conference to someone else.
		in.SponsorID = existing.SponsorID
	default:
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.RoomID != existing.RoomID || in.TimeSlotID != existing.TimeSlotID {
		if err := s.requireFreeSlot(ctx, in.RoomID, in.TimeSlotID, id); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	updated := domain.NewConference(in, existing.CreatedAt, time.Now())
	updated.ID = id
	if err := s.conferenceRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, mapConferenceWriteError("update conference", err)
	}
	return updated, nil
}

func (s *conferenceService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.conferenceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete conference: %w", err)
	}
	return nil
}

func (s *conferenceService) ListRegistrations(ctx context.Context, conferenceID string) ([]*domain.RegistrationWithProfile, error) {
	if _, err := s.Get(ctx, conferenceID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListByConference(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("list conference registrations: %w", err)
	}
	return regs, nil
}

func (s *conferenceService) requireFreeSlot(ctx context.Context, roomID, timeSlotID int64, excludeID string) error {
	free, err := s.availability.IsSlotAvailable(ctx, roomID, timeSlotID, excludeID)
	if err != nil {
		return err
	}
	if !free {
		return domain.ErrSlotUnavailable
	}
	return nil
}

// mapConferenceWriteError keeps the lost-race slot error and reports dangling references as bad input.
func mapConferenceWriteError(op string, err error) error {
	if errors.Is(err, domain.ErrSlotUnavailable) {
		return err
	}
	if domain.KindOf(err) == domain.KindForeignKeyViolation {
		return fmt.Errorf("%w: speaker, room, time slot or sponsor does not exist", domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}

package services

import (
	"context"
	"fmt"
	"time"

	"tradefair/internal/domain"
)

type availabilityService struct {
	conferenceRepo domain.ConferenceRepository
	timeSlotRepo   domain.TimeSlotRepository
	contextTimeout time.Duration
}

// NewAvailabilityService returns an AvailabilityService backed by the conference and time slot repositories.
func NewAvailabilityService(conferenceRepo domain.ConferenceRepository, timeSlotRepo domain.TimeSlotRepository, timeout time.Duration) domain.AvailabilityService {
	return &availabilityService{
		conferenceRepo: conferenceRepo,
		timeSlotRepo:   timeSlotRepo,
		contextTimeout: timeout,
	}
}

// IsSlotAvailable reports whether no conference other than excludeConferenceID occupies (roomID, timeSlotID).
func (s *availabilityService) IsSlotAvailable(ctx context.Context, roomID, timeSlotID int64, excludeConferenceID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	n, err := s.conferenceRepo.CountInSlot(ctx, roomID, timeSlotID, excludeConferenceID)
	if err != nil {
		return false, fmt.Errorf("check slot availability: %w", err)
	}
	return n == 0, nil
}

// RoomAvailability marks every known time slot as free or occupied for roomID using one conference query.
func (s *availabilityService) RoomAvailability(ctx context.Context, roomID int64) ([]*domain.SlotAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slots, err := s.timeSlotRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	conferences, err := s.conferenceRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list room conferences: %w", err)
	}
	occupied := make(map[int64]struct{}, len(conferences))
	for _, c := range conferences {
		occupied[c.TimeSlotID] = struct{}{}
	}
	out := make([]*domain.SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		_, taken := occupied[slot.ID]
		out = append(out, &domain.SlotAvailability{TimeSlot: slot, Available: !taken})
	}
	return out, nil
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tradefair/internal/domain"
)

type venueService struct {
	roomRepo       domain.RoomRepository
	timeSlotRepo   domain.TimeSlotRepository
	contextTimeout time.Duration
}

// NewVenueService returns a VenueService for rooms and time slots.
func NewVenueService(roomRepo domain.RoomRepository, timeSlotRepo domain.TimeSlotRepository, timeout time.Duration) domain.VenueService {
	return &venueService{roomRepo: roomRepo, timeSlotRepo: timeSlotRepo, contextTimeout: timeout}
}

func (s *venueService) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *venueService) CreateRoom(ctx context.Context, room *domain.Room) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	room.CreatedAt = time.Now()
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

func (s *venueService) ListTimeSlots(ctx context.Context) ([]*domain.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slots, err := s.timeSlotRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

func (s *venueService) CreateTimeSlot(ctx context.Context, day int, startTime, endTime string) (*domain.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slot, err := domain.NewTimeSlot(day, startTime, endTime)
	if err != nil {
		return nil, err
	}
	if err := s.timeSlotRepo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create time slot: %w", err)
	}
	return slot, nil
}

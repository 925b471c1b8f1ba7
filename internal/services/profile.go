package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tradefair/internal/domain"
)

type profileService struct {
	profileRepo    domain.ProfileRepository
	contextTimeout time.Duration
}

// NewProfileService returns a ProfileService.
func NewProfileService(profileRepo domain.ProfileRepository, timeout time.Duration) domain.ProfileService {
	return &profileService{profileRepo: profileRepo, contextTimeout: timeout}
}

func (s *profileService) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	for _, name := range []*string{upd.FirstName, upd.LastName} {
		if name != nil && strings.TrimSpace(*name) == "" {
			return nil, fmt.Errorf("%w: names cannot be empty", domain.ErrInvalidInput)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.profileRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

func (s *profileService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Profile, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profiles, total, err := s.profileRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, total, nil
}

func (s *profileService) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Profile, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profiles, err := s.profileRepo.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list profiles by role: %w", err)
	}
	return profiles, nil
}

func (s *profileService) ChangeRole(ctx context.Context, userID string, role domain.Role) (*domain.Profile, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.profileRepo.UpdateRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("change role: %w", err)
	}
	return p, nil
}

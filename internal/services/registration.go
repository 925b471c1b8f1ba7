package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"tradefair/internal/domain"
)

type registrationService struct {
	registrationRepo domain.RegistrationRepository
	conferenceRepo   domain.ConferenceRepository
	logger           *slog.Logger
	contextTimeout   time.Duration
}

// NewRegistrationService returns the visitor registration workflow.
func NewRegistrationService(
	registrationRepo domain.RegistrationRepository,
	conferenceRepo domain.ConferenceRepository,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		conferenceRepo:   conferenceRepo,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

// CheckTimeConflict returns the first of the user's registrations, in creation order, whose
// conference shares the target's time slot. Lookup failures count as no conflict.
func (s *registrationService) CheckTimeConflict(ctx context.Context, userID, conferenceID string) *domain.RegistrationConflict {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	target, err := s.conferenceRepo.GetByID(ctx, conferenceID)
	if err != nil {
		s.logger.WarnContext(ctx, "conflict check: load target conference", "conference_id", conferenceID, "err", err)
		return nil
	}
	regs, err := s.registrationRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "conflict check: list registrations", "user_id", userID, "err", err)
		return nil
	}
	for _, reg := range regs {
		if reg.Conference == nil || reg.ConferenceID == target.ID {
			continue
		}
		if reg.Conference.TimeSlotID == target.TimeSlotID {
			return &domain.RegistrationConflict{
				ExistingConference: reg.Conference,
				NewConference:      target,
				TimeSlot:           target.TimeSlot,
			}
		}
	}
	return nil
}

func (s *registrationService) Register(ctx context.Context, userID, conferenceID string) (*domain.Registration, *domain.RegistrationConflict, error) {
	if conflict := s.CheckTimeConflict(ctx, userID, conferenceID); conflict != nil {
		return nil, conflict, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.registrationRepo.Create(ctx, userID, conferenceID)
	if err != nil {
		return nil, nil, mapRegistrationError("create registration", err)
	}
	return reg, nil, nil
}

func (s *registrationService) Unregister(ctx context.Context, userID, conferenceID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.registrationRepo.Delete(ctx, userID, conferenceID); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

// Replace swaps the user's registration through the replace_user_registration procedure.
// Only when the procedure itself is unusable does it fall back to delete, insert and, if the
// insert fails, restore of the old registration; that path is reported as ReplacePathDegraded.
func (s *registrationService) Replace(ctx context.Context, userID, oldConferenceID, newConferenceID string) (*domain.ReplaceOutcome, error) {
	if oldConferenceID == "" || newConferenceID == "" || oldConferenceID == newConferenceID {
		return nil, fmt.Errorf("%w: old and new conference must differ", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.registrationRepo.Replace(ctx, userID, oldConferenceID, newConferenceID)
	if err == nil {
		return &domain.ReplaceOutcome{Status: domain.ReplaceSuccess, Path: domain.ReplacePathAtomic, Registration: reg}, nil
	}
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return rolledBack(domain.ReplacePathAtomic, domain.ErrNotRegistered)
	case domain.KindUniqueViolation:
		return rolledBack(domain.ReplacePathAtomic, domain.ErrAlreadyRegistered)
	case domain.KindForeignKeyViolation:
		return rolledBack(domain.ReplacePathAtomic, domain.ErrNotFound)
	case domain.KindCheckViolation:
		return rolledBack(domain.ReplacePathAtomic, domain.ErrInvalidInput)
	}

	s.logger.WarnContext(ctx, "atomic replace unavailable, using degraded path", "user_id", userID, "err", err)
	return s.replaceDegraded(ctx, userID, oldConferenceID, newConferenceID)
}

func (s *registrationService) replaceDegraded(ctx context.Context, userID, oldConferenceID, newConferenceID string) (*domain.ReplaceOutcome, error) {
	regs, err := s.registrationRepo.ListByUser(ctx, userID)
	if err != nil {
		return rolledBack(domain.ReplacePathDegraded, fmt.Errorf("list registrations: %w", err))
	}
	if !slices.ContainsFunc(regs, func(r *domain.Registration) bool { return r.ConferenceID == oldConferenceID }) {
		return rolledBack(domain.ReplacePathDegraded, domain.ErrNotRegistered)
	}
	if err := s.registrationRepo.Delete(ctx, userID, oldConferenceID); err != nil {
		return rolledBack(domain.ReplacePathDegraded, fmt.Errorf("delete old registration: %w", err))
	}

	reg, insertErr := s.registrationRepo.Create(ctx, userID, newConferenceID)
	if insertErr == nil {
		return &domain.ReplaceOutcome{Status: domain.ReplaceSuccess, Path: domain.ReplacePathDegraded, Registration: reg}, nil
	}
	insertErr = mapRegistrationError("create new registration", insertErr)

	restoreCtx, cancelRestore := compensationContext(ctx, s.contextTimeout)
	defer cancelRestore()
	if _, restoreErr := s.registrationRepo.Create(restoreCtx, userID, oldConferenceID); restoreErr != nil {
		s.logger.ErrorContext(ctx, "replace left user without either registration",
			"user_id", userID, "old_conference_id", oldConferenceID, "new_conference_id", newConferenceID,
			"insert_err", insertErr, "restore_err", restoreErr)
		return &domain.ReplaceOutcome{
				Status: domain.ReplacePartialFailure,
				Path:   domain.ReplacePathDegraded,
				Detail: fmt.Sprintf("registering for %s failed (%v) and restoring %s failed (%v)", newConferenceID, insertErr, oldConferenceID, restoreErr),
			},
			fmt.Errorf("%w: %w", domain.ErrReplacePartialFailure, insertErr)
	}
	return rolledBack(domain.ReplacePathDegraded, insertErr)
}

// compensationContext keeps ctx's values but not its deadline or cancellation, so an undo step
// still runs after the request that triggered it has timed out or gone away.
func compensationContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

func rolledBack(path domain.ReplacePath, cause error) (*domain.ReplaceOutcome, error) {
	return &domain.ReplaceOutcome{Status: domain.ReplaceRolledBack, Path: path, Detail: cause.Error()},
		fmt.Errorf("%w: %w", domain.ErrReplaceRolledBack, cause)
}

func (s *registrationService) ListMine(ctx context.Context, userID string) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

// ListConferencesWithStatus lists every conference, oldest first, marked with the user's registration.
func (s *registrationService) ListConferencesWithStatus(ctx context.Context, userID string) ([]*domain.ConferenceWithRegistration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conferences, err := s.conferenceRepo.List(ctx, domain.ConferenceFilter{OldestFirst: true})
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	regs, err := s.registrationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	regByConference := make(map[string]string, len(regs))
	for _, r := range regs {
		regByConference[r.ConferenceID] = r.ID
	}
	out := make([]*domain.ConferenceWithRegistration, 0, len(conferences))
	for _, c := range conferences {
		item := &domain.ConferenceWithRegistration{Conference: c}
		if id, ok := regByConference[c.ID]; ok {
			item.IsRegistered = true
			item.RegistrationID = &id
		}
		out = append(out, item)
	}
	return out, nil
}

// PersonalSchedule groups the user's conferences into days 1..3, each ordered by start time.
func (s *registrationService) PersonalSchedule(ctx context.Context, userID string) ([]*domain.ScheduleDay, error) {
	regs, err := s.ListMine(ctx, userID)
	if err != nil {
		return nil, err
	}
	days := make([]*domain.ScheduleDay, 0, domain.LastDay-domain.FirstDay+1)
	byDay := make(map[int]*domain.ScheduleDay)
	for d := domain.FirstDay; d <= domain.LastDay; d++ {
		day := &domain.ScheduleDay{Day: d, Conferences: []*domain.Conference{}}
		days = append(days, day)
		byDay[d] = day
	}
	for _, r := range regs {
		if r.Conference == nil || r.Conference.TimeSlot == nil {
			continue
		}
		if day, ok := byDay[r.Conference.TimeSlot.Day]; ok {
			day.Conferences = append(day.Conferences, r.Conference)
		}
	}
	for _, day := range days {
		slices.SortStableFunc(day.Conferences, func(a, b *domain.Conference) int {
			return cmp.Compare(a.TimeSlot.StartTime, b.TimeSlot.StartTime)
		})
	}
	return days, nil
}

func mapRegistrationError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return domain.ErrAlreadyRegistered
	case domain.KindOf(err) == domain.KindUniqueViolation:
		return domain.ErrAlreadyRegistered
	case domain.KindOf(err) == domain.KindForeignKeyViolation:
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

package services

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"tradefair/internal/domain"
)

// DefaultTopConferences is the TopConferences limit used when the caller passes none.
const DefaultTopConferences = 10

type statisticsService struct {
	conferenceRepo   domain.ConferenceRepository
	registrationRepo domain.RegistrationRepository
	roomRepo         domain.RoomRepository
	timeSlotRepo     domain.TimeSlotRepository
	contextTimeout   time.Duration
}

// NewStatisticsService returns a StatisticsService over the four read models.
func NewStatisticsService(
	conferenceRepo domain.ConferenceRepository,
	registrationRepo domain.RegistrationRepository,
	roomRepo domain.RoomRepository,
	timeSlotRepo domain.TimeSlotRepository,
	timeout time.Duration,
) domain.StatisticsService {
	return &statisticsService{
		conferenceRepo:   conferenceRepo,
		registrationRepo: registrationRepo,
		roomRepo:         roomRepo,
		timeSlotRepo:     timeSlotRepo,
		contextTimeout:   timeout,
	}
}

type snapshot struct {
	conferences   []*domain.Conference
	registrations []*domain.Registration
	rooms         []*domain.Room
	timeSlots     []*domain.TimeSlot
}

// load fetches the four collections concurrently; the first failure cancels the rest.
func (s *statisticsService) load(ctx context.Context) (*snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var snap snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.conferences, err = s.conferenceRepo.List(ctx, domain.ConferenceFilter{OldestFirst: true})
		if err != nil {
			return fmt.Errorf("list conferences: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		snap.registrations, err = s.registrationRepo.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("list registrations: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		snap.rooms, err = s.roomRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list rooms: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		snap.timeSlots, err = s.timeSlotRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list time slots: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *statisticsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeDashboard(snap.conferences, snap.registrations, snap.rooms, snap.timeSlots), nil
}

func (s *statisticsService) RoomUtilization(ctx context.Context) ([]domain.RoomUsage, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	perRoom := countBy(snap.conferences, func(c *domain.Conference) int64 { return c.RoomID })
	maxPossible := len(snap.timeSlots)
	out := make([]domain.RoomUsage, 0, len(snap.rooms))
	for _, room := range snap.rooms {
		n := perRoom[room.ID]
		out = append(out, domain.RoomUsage{
			Room:            room,
			ConferenceCount: n,
			MaxPossible:     maxPossible,
			UtilizationRate: percent(n, maxPossible),
		})
	}
	return out, nil
}

// RegistrationsByDay counts registrations by the day of their conference.
func (s *statisticsService) RegistrationsByDay(ctx context.Context) (map[int]int, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	dayOf := make(map[string]int, len(snap.conferences))
	for _, c := range snap.conferences {
		if c.TimeSlot != nil {
			dayOf[c.ID] = c.TimeSlot.Day
		}
	}
	out := make(map[int]int)
	for _, r := range snap.registrations {
		if day, ok := dayOf[r.ConferenceID]; ok && day > 0 {
			out[day]++
		}
	}
	return out, nil
}

func (s *statisticsService) TopConferences(ctx context.Context, limit int) ([]domain.ConferenceRegCount, error) {
	if limit <= 0 {
		limit = DefaultTopConferences
	}
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return topByRegistrations(snap.conferences, snap.registrations, limit), nil
}

func (s *statisticsService) ConferenceRegistrationCounts(ctx context.Context) ([]domain.ConferenceRegistrationStat, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	counts := countBy(snap.registrations, func(r *domain.Registration) string { return r.ConferenceID })
	out := make([]domain.ConferenceRegistrationStat, 0, len(snap.conferences))
	for _, c := range snap.conferences {
		out = append(out, domain.ConferenceRegistrationStat{ID: c.ID, Title: c.Title, RegistrationCount: counts[c.ID]})
	}
	return out, nil
}

// SponsorDashboard lists the sponsor's conferences with registration counts, most popular first.
func (s *statisticsService) SponsorDashboard(ctx context.Context, sponsorID string) ([]domain.ConferenceRegCount, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conferences, err := s.conferenceRepo.ListBySponsor(ctx, sponsorID)
	if err != nil {
		return nil, fmt.Errorf("list sponsored conferences: %w", err)
	}
	regs, err := s.registrationRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return topByRegistrations(conferences, regs, len(conferences)), nil
}

// ComputeDashboard builds the organizer dashboard from already fetched collections.
func ComputeDashboard(conferences []*domain.Conference, registrations []*domain.Registration, rooms []*domain.Room, timeSlots []*domain.TimeSlot) *domain.DashboardStats {
	totalConferences := len(conferences)
	totalRegistrations := len(registrations)
	totalTimeSlots := len(timeSlots)

	stats := &domain.DashboardStats{
		TotalConferences:   totalConferences,
		TotalRegistrations: totalRegistrations,
		TotalRooms:         len(rooms),
		TotalTimeSlots:     totalTimeSlots,
		ConferencesPerDay:  make([]domain.DayCount, 0, domain.LastDay),
		RoomUtilization:    make([]domain.RoomUtilization, 0, len(rooms)),
	}
	if totalConferences > 0 {
		stats.AverageAttendanceRate = roundTo(float64(totalRegistrations)/float64(totalConferences), 2)
	}

	for day := domain.FirstDay; day <= domain.LastDay; day++ {
		n := 0
		for _, c := range conferences {
			if c.TimeSlot != nil && c.TimeSlot.Day == day {
				n++
			}
		}
		stats.ConferencesPerDay = append(stats.ConferencesPerDay, domain.DayCount{Day: day, Count: n})
	}

	for _, room := range rooms {
		u := domain.RoomUtilization{Room: room, UtilizationByDay: make([]domain.DayUtilization, 0, domain.LastDay)}
		totalScore := 0
		for day := domain.FirstDay; day <= domain.LastDay; day++ {
			n := 0
			for _, c := range conferences {
				if c.RoomID == room.ID && c.TimeSlot != nil && c.TimeSlot.Day == day {
					n++
				}
			}
			u.UtilizationByDay = append(u.UtilizationByDay, domain.DayUtilization{Day: day, Score: n, ConferenceCount: n})
			totalScore += n
		}
		for _, c := range conferences {
			if c.RoomID == room.ID {
				u.ConferenceCount++
			}
		}
		u.UtilizationRate = percent(u.ConferenceCount, totalTimeSlots)
		u.AverageScore = roundTo(float64(totalScore)/float64(domain.LastDay-domain.FirstDay+1), 1)
		stats.RoomUtilization = append(stats.RoomUtilization, u)
	}

	stats.PopularConferences = topByRegistrations(conferences, registrations, domain.PopularConferenceCount)
	stats.OverallUtilizationRate = percent(totalConferences, len(rooms)*totalTimeSlots)
	return stats
}

// topByRegistrations sorts conferences by registration count descending, keeping input order on ties.
func topByRegistrations(conferences []*domain.Conference, registrations []*domain.Registration, limit int) []domain.ConferenceRegCount {
	counts := countBy(registrations, func(r *domain.Registration) string { return r.ConferenceID })
	out := make([]domain.ConferenceRegCount, 0, len(conferences))
	for _, c := range conferences {
		out = append(out, domain.ConferenceRegCount{Conference: c, RegistrationCount: counts[c.ID]})
	}
	slices.SortStableFunc(out, func(a, b domain.ConferenceRegCount) int {
		return cmp.Compare(b.RegistrationCount, a.RegistrationCount)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func countBy[T any, K comparable](items []T, key func(T) K) map[K]int {
	out := make(map[K]int, len(items))
	for _, it := range items {
		out[key(it)]++
	}
	return out
}

// percent returns round(n/of*100), or 0 when of is 0.
func percent(n, of int) int {
	if of <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(of) * 100))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

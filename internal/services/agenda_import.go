package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"tradefair/internal/domain"
)

const dateKeyLayout = "2006-01-02"

type agendaImportService struct {
	source         domain.AgendaSource
	speakerRepo    domain.SpeakerRepository
	roomRepo       domain.RoomRepository
	timeSlotRepo   domain.TimeSlotRepository
	conferenceRepo domain.ConferenceRepository
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewAgendaImportService returns an AgendaImportService reading from source.
func NewAgendaImportService(
	source domain.AgendaSource,
	speakerRepo domain.SpeakerRepository,
	roomRepo domain.RoomRepository,
	timeSlotRepo domain.TimeSlotRepository,
	conferenceRepo domain.ConferenceRepository,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AgendaImportService {
	return &agendaImportService{
		source:         source,
		speakerRepo:    speakerRepo,
		roomRepo:       roomRepo,
		timeSlotRepo:   timeSlotRepo,
		conferenceRepo: conferenceRepo,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// agendaImport holds the lookup state of one import run.
type agendaImport struct {
	summary  *domain.ImportSummary
	days     map[string]int
	rooms    map[string]*domain.Room
	speakers map[string]*domain.Speaker
	slots    map[slotKey]*domain.TimeSlot
	feedRoom map[int]domain.AgendaRoom
	feedSpk  map[string]domain.AgendaSpeaker
}

type slotKey struct {
	day   int
	start string
}

func (s *agendaImportService) Import(ctx context.Context, sourceID string) (*domain.ImportSummary, error) {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		return nil, fmt.Errorf("%w: source_id is required", domain.ErrInvalidInput)
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	feed, err := s.source.Fetch(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("fetch agenda: %w", err)
	}

	sessions := make([]domain.AgendaSession, len(feed.Sessions))
	copy(sessions, feed.Sessions)
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartsAt.Before(sessions[j].StartsAt)
	})

	days, err := eventDays(sessions)
	if err != nil {
		return nil, err
	}
	run, err := s.load(ctx, feed, days)
	if err != nil {
		return nil, err
	}

	for _, sess := range sessions {
		reason, err := s.importSession(ctx, run, sess)
		if err != nil {
			return nil, fmt.Errorf("import session %s: %w", sess.ID, err)
		}
		if reason != "" {
			run.summary.Skipped = append(run.summary.Skipped, domain.ImportSkip{SessionID: sess.ID, Title: sess.Title, Reason: reason})
		}
	}

	s.logger.InfoContext(ctx, "agenda imported",
		"source_id", sourceID,
		"conferences", run.summary.ConferencesCreated,
		"speakers", run.summary.SpeakersCreated,
		"rooms", run.summary.RoomsCreated,
		"time_slots", run.summary.TimeSlotsCreated,
		"skipped", len(run.summary.Skipped),
	)
	return run.summary, nil
}

// eventDays numbers the distinct dates of importable sessions 1..LastDay in calendar order.
func eventDays(sessions []domain.AgendaSession) (map[string]int, error) {
	days := make(map[string]int)
	for _, sess := range sessions {
		if !importable(sess) {
			continue
		}
		key := sess.StartsAt.Format(dateKeyLayout)
		if _, ok := days[key]; !ok {
			days[key] = len(days) + 1
		}
	}
	if len(days) > domain.LastDay {
		return nil, fmt.Errorf("%w: agenda spans %d days, at most %d are supported", domain.ErrInvalidInput, len(days), domain.LastDay)
	}
	return days, nil
}

func importable(sess domain.AgendaSession) bool {
	return !sess.ServiceSession && len(sess.SpeakerIDs) > 0 && sess.RoomID != 0
}

func (s *agendaImportService) load(ctx context.Context, feed *domain.AgendaFeed, days map[string]int) (*agendaImport, error) {
	run := &agendaImport{
		summary:  &domain.ImportSummary{Skipped: make([]domain.ImportSkip, 0)},
		days:     days,
		rooms:    make(map[string]*domain.Room),
		speakers: make(map[string]*domain.Speaker),
		slots:    make(map[slotKey]*domain.TimeSlot),
		feedRoom: make(map[int]domain.AgendaRoom, len(feed.Rooms)),
		feedSpk:  make(map[string]domain.AgendaSpeaker, len(feed.Speakers)),
	}
	for _, r := range feed.Rooms {
		run.feedRoom[r.ID] = r
	}
	for _, sp := range feed.Speakers {
		run.feedSpk[sp.ID] = sp
	}

	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	for _, r := range rooms {
		run.rooms[strings.ToLower(r.Name)] = r
	}
	speakers, err := s.speakerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	for _, sp := range speakers {
		run.speakers[strings.ToLower(sp.Name)] = sp
	}
	slots, err := s.timeSlotRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	for _, slot := range slots {
		run.slots[slotKey{slot.Day, slot.StartTime}] = slot
	}
	return run, nil
}

// importSession creates the conference for sess. A non-empty reason means it was skipped.
func (s *agendaImportService) importSession(ctx context.Context, run *agendaImport, sess domain.AgendaSession) (string, error) {
	switch {
	case sess.ServiceSession:
		return "service session", nil
	case len(sess.SpeakerIDs) == 0:
		return "no speaker", nil
	case sess.RoomID == 0:
		return "no room", nil
	case sess.Title == "":
		return "no title", nil
	}
	feedRoom, ok := run.feedRoom[sess.RoomID]
	if !ok || feedRoom.Name == "" {
		return "unknown room", nil
	}
	feedSpeaker, ok := run.feedSpk[sess.SpeakerIDs[0]]
	if !ok || feedSpeaker.FullName == "" {
		return "unknown speaker", nil
	}

	slot, err := s.ensureSlot(ctx, run, sess)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return err.Error(), nil
		}
		return "", err
	}
	room, err := s.ensureRoom(ctx, run, feedRoom)
	if err != nil {
		return "", err
	}
	speaker, err := s.ensureSpeaker(ctx, run, feedSpeaker)
	if err != nil {
		return "", err
	}

	n, err := s.conferenceRepo.CountInSlot(ctx, room.ID, slot.ID, "")
	if err != nil {
		return "", fmt.Errorf("check availability: %w", err)
	}
	if n > 0 {
		return domain.ErrSlotUnavailable.Error(), nil
	}
	now := time.Now()
	conf := domain.NewConference(domain.ConferenceInput{
		Title:       sess.Title,
		Description: sess.Description,
		SpeakerID:   speaker.ID,
		RoomID:      room.ID,
		TimeSlotID:  slot.ID,
	}, now, now)
	if err := s.conferenceRepo.Create(ctx, conf); err != nil {
		if errors.Is(err, domain.ErrSlotUnavailable) {
			return domain.ErrSlotUnavailable.Error(), nil
		}
		return "", fmt.Errorf("create conference: %w", err)
	}
	run.summary.ConferencesCreated++
	return "", nil
}

func (s *agendaImportService) ensureSlot(ctx context.Context, run *agendaImport, sess domain.AgendaSession) (*domain.TimeSlot, error) {
	day := run.days[sess.StartsAt.Format(dateKeyLayout)]
	start := sess.StartsAt.Format(domain.ClockLayout)
	if slot, ok := run.slots[slotKey{day, start}]; ok {
		return slot, nil
	}
	if sess.EndsAt.Format(dateKeyLayout) != sess.StartsAt.Format(dateKeyLayout) {
		return nil, fmt.Errorf("%w: session ends on a later day", domain.ErrInvalidInput)
	}
	slot, err := domain.NewTimeSlot(day, start, sess.EndsAt.Format(domain.ClockLayout))
	if err != nil {
		return nil, err
	}
	if err := s.timeSlotRepo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create time slot: %w", err)
	}
	run.slots[slotKey{day, start}] = slot
	run.summary.TimeSlotsCreated++
	return slot, nil
}

func (s *agendaImportService) ensureRoom(ctx context.Context, run *agendaImport, src domain.AgendaRoom) (*domain.Room, error) {
	key := strings.ToLower(src.Name)
	if room, ok := run.rooms[key]; ok {
		return room, nil
	}
	room := domain.NewRoom(src.Name, nil, time.Now())
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	run.rooms[key] = room
	run.summary.RoomsCreated++
	return room, nil
}

func (s *agendaImportService) ensureSpeaker(ctx context.Context, run *agendaImport, src domain.AgendaSpeaker) (*domain.Speaker, error) {
	key := strings.ToLower(src.FullName)
	if sp, ok := run.speakers[key]; ok {
		return sp, nil
	}
	now := time.Now()
	sp := domain.NewSpeaker(src.FullName, optionalString(src.Photo), optionalString(src.Bio), now, now)
	if err := s.speakerRepo.Create(ctx, sp); err != nil {
		return nil, fmt.Errorf("create speaker: %w", err)
	}
	run.speakers[key] = sp
	run.summary.SpeakersCreated++
	return sp, nil
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

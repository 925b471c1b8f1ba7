package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"tradefair/internal/domain"
)

const testTimeout = time.Second

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeConferenceRepo implements domain.ConferenceRepository over a slice, keeping insertion order.
type fakeConferenceRepo struct {
	mu          sync.Mutex
	conferences []*domain.Conference
	slots       map[int64]*domain.TimeSlot
	listErr     error
	getErr      error
	createErr   error
	nextID      int
}

func newFakeConferenceRepo(slots ...*domain.TimeSlot) *fakeConferenceRepo {
	f := &fakeConferenceRepo{slots: make(map[int64]*domain.TimeSlot)}
	for _, s := range slots {
		f.slots[s.ID] = s
	}
	return f
}

func (f *fakeConferenceRepo) add(id string, roomID, slotID int64) *domain.Conference {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &domain.Conference{ID: id, Title: "Talk " + id, RoomID: roomID, TimeSlotID: slotID, TimeSlot: f.slots[slotID]}
	f.conferences = append(f.conferences, c)
	return c
}

func (f *fakeConferenceRepo) Create(ctx context.Context, c *domain.Conference) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.conferences {
		if existing.RoomID == c.RoomID && existing.TimeSlotID == c.TimeSlotID {
			return domain.ErrSlotUnavailable
		}
	}
	f.nextID++
	c.ID = fmt.Sprintf("conf-new-%d", f.nextID)
	c.TimeSlot = f.slots[c.TimeSlotID]
	f.conferences = append(f.conferences, c)
	return nil
}

func (f *fakeConferenceRepo) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.conferences {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeConferenceRepo) List(ctx context.Context, filter domain.ConferenceFilter) ([]*domain.Conference, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Conference, 0, len(f.conferences))
	for _, c := range f.conferences {
		if filter.RoomID > 0 && c.RoomID != filter.RoomID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeConferenceRepo) ListByRoom(ctx context.Context, roomID int64) ([]*domain.Conference, error) {
	return f.List(ctx, domain.ConferenceFilter{RoomID: roomID})
}

func (f *fakeConferenceRepo) ListBySponsor(ctx context.Context, sponsorID string) ([]*domain.Conference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Conference, 0)
	for _, c := range f.conferences {
		if c.SponsorID != nil && *c.SponsorID == sponsorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConferenceRepo) Update(ctx context.Context, c *domain.Conference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.conferences {
		if existing.ID == c.ID {
			f.conferences[i] = c
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeConferenceRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.conferences {
		if c.ID == id {
			f.conferences = append(f.conferences[:i], f.conferences[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeConferenceRepo) CountInSlot(ctx context.Context, roomID, timeSlotID int64, excludeID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.conferences {
		if c.RoomID == roomID && c.TimeSlotID == timeSlotID && c.ID != excludeID {
			n++
		}
	}
	return n, nil
}

func (f *fakeConferenceRepo) CountBySpeaker(ctx context.Context, speakerID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.conferences {
		if c.SpeakerID == speakerID {
			n++
		}
	}
	return n, nil
}

// fakeRegistrationRepo implements domain.RegistrationRepository. Conferences are resolved
// through the conference fake so ListByUser returns joined rows like the real query.
type fakeRegistrationRepo struct {
	mu          sync.Mutex
	conferences *fakeConferenceRepo
	regs        []*domain.Registration
	nextID      int

	listErr    error
	deleteErr  error
	replaceErr error
	// createErrFor fails Create for the given conference ids.
	createErrFor map[string]error
	// stallCreateFor makes Create wait for its context to end for the given conference ids.
	stallCreateFor map[string]bool
	calls          []string
}

func newFakeRegistrationRepo(conferences *fakeConferenceRepo) *fakeRegistrationRepo {
	return &fakeRegistrationRepo{conferences: conferences, createErrFor: make(map[string]error), stallCreateFor: make(map[string]bool)}
}

func (f *fakeRegistrationRepo) holds(userID, conferenceID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.regs {
		if r.UserID == userID && r.ConferenceID == conferenceID {
			return true
		}
	}
	return false
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, userID, conferenceID string) (*domain.Registration, error) {
	f.mu.Lock()
	stall := f.stallCreateFor[conferenceID]
	f.mu.Unlock()
	if stall {
		<-ctx.Done()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create:"+conferenceID)
	if err := f.createErrFor[conferenceID]; err != nil {
		return nil, err
	}
	for _, r := range f.regs {
		if r.UserID == userID && r.ConferenceID == conferenceID {
			return nil, domain.ErrAlreadyRegistered
		}
	}
	f.nextID++
	reg := &domain.Registration{ID: fmt.Sprintf("reg-%d", f.nextID), UserID: userID, ConferenceID: conferenceID, CreatedAt: time.Now()}
	f.regs = append(f.regs, reg)
	return reg, nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, userID, conferenceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete:"+conferenceID)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, r := range f.regs {
		if r.UserID == userID && r.ConferenceID == conferenceID {
			f.regs = append(f.regs[:i], f.regs[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeRegistrationRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Registration, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	regs := make([]*domain.Registration, 0)
	for _, r := range f.regs {
		if r.UserID == userID {
			cp := *r
			regs = append(regs, &cp)
		}
	}
	f.mu.Unlock()
	for _, r := range regs {
		c, err := f.conferences.GetByID(ctx, r.ConferenceID)
		if err == nil {
			r.Conference = c
		}
	}
	return regs, nil
}

func (f *fakeRegistrationRepo) ListByConference(ctx context.Context, conferenceID string) ([]*domain.RegistrationWithProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.RegistrationWithProfile, 0)
	for _, r := range f.regs {
		if r.ConferenceID == conferenceID {
			out = append(out, &domain.RegistrationWithProfile{Registration: r})
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Registration(nil), f.regs...), nil
}

// Replace behaves like replace_user_registration unless replaceErr is set.
func (f *fakeRegistrationRepo) Replace(ctx context.Context, userID, oldConferenceID, newConferenceID string) (*domain.Registration, error) {
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	if !f.holds(userID, oldConferenceID) {
		return nil, &domain.StoreError{Kind: domain.KindNotFound, Op: "registrations.replace", Err: errors.New("no registration")}
	}
	if f.holds(userID, newConferenceID) {
		return nil, &domain.StoreError{Kind: domain.KindUniqueViolation, Op: "registrations.replace", Err: errors.New("duplicate")}
	}
	_ = f.Delete(ctx, userID, oldConferenceID)
	return f.Create(ctx, userID, newConferenceID)
}

// fakeSpeakerRepo implements domain.SpeakerRepository.
type fakeSpeakerRepo struct {
	byID      map[string]*domain.Speaker
	deleteErr error
}

func newFakeSpeakerRepo(speakers ...*domain.Speaker) *fakeSpeakerRepo {
	f := &fakeSpeakerRepo{byID: make(map[string]*domain.Speaker)}
	for _, s := range speakers {
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeSpeakerRepo) Create(ctx context.Context, s *domain.Speaker) error {
	s.ID = fmt.Sprintf("spk-new-%d", len(f.byID)+1)
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSpeakerRepo) GetByID(ctx context.Context, id string) (*domain.Speaker, error) {
	if s, ok := f.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSpeakerRepo) List(ctx context.Context) ([]*domain.Speaker, error) {
	out := make([]*domain.Speaker, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSpeakerRepo) Search(ctx context.Context, term string) ([]*domain.Speaker, error) {
	return f.List(ctx)
}

func (f *fakeSpeakerRepo) Update(ctx context.Context, s *domain.Speaker) error {
	if _, ok := f.byID[s.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSpeakerRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeRoomRepo implements domain.RoomRepository.
type fakeRoomRepo struct {
	rooms   []*domain.Room
	listErr error
}

func (f *fakeRoomRepo) Create(ctx context.Context, room *domain.Room) error {
	room.ID = int64(len(f.rooms) + 1)
	f.rooms = append(f.rooms, room)
	return nil
}

func (f *fakeRoomRepo) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	for _, r := range f.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoomRepo) List(ctx context.Context) ([]*domain.Room, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.rooms, nil
}

// fakeTimeSlotRepo implements domain.TimeSlotRepository.
type fakeTimeSlotRepo struct {
	slots []*domain.TimeSlot
}

func (f *fakeTimeSlotRepo) Create(ctx context.Context, slot *domain.TimeSlot) error {
	slot.ID = int64(len(f.slots) + 1)
	f.slots = append(f.slots, slot)
	return nil
}

func (f *fakeTimeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	for _, s := range f.slots {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTimeSlotRepo) List(ctx context.Context) ([]*domain.TimeSlot, error) {
	return f.slots, nil
}

// threeSlots returns day 1 09:00, day 1 10:00 and day 2 09:00.
func threeSlots() []*domain.TimeSlot {
	return []*domain.TimeSlot{
		{ID: 1, Day: 1, StartTime: "09:00", EndTime: "10:00"},
		{ID: 2, Day: 1, StartTime: "10:00", EndTime: "11:00"},
		{ID: 3, Day: 2, StartTime: "09:00", EndTime: "10:00"},
	}
}

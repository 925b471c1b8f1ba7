package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"tradefair/internal/delivery/http/helpers"
	"tradefair/internal/delivery/http/middleware"
	"tradefair/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	confA = "6f1c1b7e-4a8e-4c1e-9f55-0d8a3b1f2c11"
	confB = "0b7e4c2a-9d1f-4f0e-8a6b-3c5d7e9f1a2b"
)

var (
	visitor   = &domain.Principal{UserID: "user-123", SessionID: "sess-1", Role: domain.RoleVisitor}
	organizer = &domain.Principal{UserID: "org-1", SessionID: "sess-2", Role: domain.RoleOrganizer}
)

// decodeEnvelope decodes rr's body; data is re-decoded into dataOut when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dataOut any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	if dataOut != nil && envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dataOut))
	}
	return envelope
}

func asPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	if p == nil {
		return ctx
	}
	return middleware.SetPrincipal(ctx, p)
}

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	reg        *domain.Registration
	conflict   *domain.RegistrationConflict
	err        error
	outcome    *domain.ReplaceOutcome
	lastUserID string
	lastConfID string
}

func (f *fakeRegistrationService) CheckTimeConflict(ctx context.Context, userID, conferenceID string) *domain.RegistrationConflict {
	f.lastUserID, f.lastConfID = userID, conferenceID
	return f.conflict
}

func (f *fakeRegistrationService) Register(ctx context.Context, userID, conferenceID string) (*domain.Registration, *domain.RegistrationConflict, error) {
	f.lastUserID, f.lastConfID = userID, conferenceID
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.reg, f.conflict, nil
}

func (f *fakeRegistrationService) Unregister(ctx context.Context, userID, conferenceID string) error {
	f.lastUserID, f.lastConfID = userID, conferenceID
	return f.err
}

func (f *fakeRegistrationService) Replace(ctx context.Context, userID, oldConferenceID, newConferenceID string) (*domain.ReplaceOutcome, error) {
	f.lastUserID, f.lastConfID = userID, newConferenceID
	return f.outcome, f.err
}

func (f *fakeRegistrationService) ListMine(ctx context.Context, userID string) ([]*domain.Registration, error) {
	return []*domain.Registration{f.reg}, f.err
}

func (f *fakeRegistrationService) ListConferencesWithStatus(ctx context.Context, userID string) ([]*domain.ConferenceWithRegistration, error) {
	return nil, f.err
}

func (f *fakeRegistrationService) PersonalSchedule(ctx context.Context, userID string) ([]*domain.ScheduleDay, error) {
	return []*domain.ScheduleDay{{Day: 1}, {Day: 2}, {Day: 3}}, f.err
}

// fakeConferenceService implements domain.ConferenceService for handler tests.
type fakeConferenceService struct {
	conference *domain.Conference
	err        error
	lastFilter domain.ConferenceFilter
	lastInput  domain.ConferenceInput
	lastCaller *domain.Principal
}

func (f *fakeConferenceService) List(ctx context.Context, filter domain.ConferenceFilter) ([]*domain.Conference, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return []*domain.Conference{f.conference}, nil
}

func (f *fakeConferenceService) ListByRoom(ctx context.Context, roomID int64) ([]*domain.Conference, error) {
	return []*domain.Conference{f.conference}, f.err
}

func (f *fakeConferenceService) Get(ctx context.Context, id string) (*domain.Conference, error) {
	return f.conference, f.err
}

func (f *fakeConferenceService) Create(ctx context.Context, in domain.ConferenceInput) (*domain.Conference, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return f.conference, nil
}

func (f *fakeConferenceService) Update(ctx context.Context, caller *domain.Principal, id string, in domain.ConferenceInput) (*domain.Conference, error) {
	f.lastCaller, f.lastInput = caller, in
	if f.err != nil {
		return nil, f.err
	}
	return f.conference, nil
}

func (f *fakeConferenceService) Delete(ctx context.Context, id string) error {
	return f.err
}

func (f *fakeConferenceService) ListRegistrations(ctx context.Context, conferenceID string) ([]*domain.RegistrationWithProfile, error) {
	return nil, f.err
}

// fakeSpeakerService implements domain.SpeakerService for handler tests.
type fakeSpeakerService struct {
	speakers   []*domain.Speaker
	err        error
	searchTerm string
	created    *domain.Speaker
}

func (f *fakeSpeakerService) List(ctx context.Context) ([]*domain.Speaker, error) {
	return f.speakers, f.err
}

func (f *fakeSpeakerService) Search(ctx context.Context, term string) ([]*domain.Speaker, error) {
	f.searchTerm = term
	return f.speakers, f.err
}

func (f *fakeSpeakerService) Get(ctx context.Context, id string) (*domain.Speaker, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.speakers[0], nil
}

func (f *fakeSpeakerService) Create(ctx context.Context, s *domain.Speaker) error {
	if f.err != nil {
		return f.err
	}
	s.ID = confB
	f.created = s
	return nil
}

func (f *fakeSpeakerService) Update(ctx context.Context, id string, upd domain.SpeakerUpdate) (*domain.Speaker, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.speakers[0], nil
}

func (f *fakeSpeakerService) Delete(ctx context.Context, id string) error {
	return f.err
}

package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradefair/internal/delivery/http/helpers"
	"tradefair/internal/domain"
)

func TestRegistrationController_Register(t *testing.T) {
	existing := &domain.Conference{ID: confB, Title: "Keynote", TimeSlotID: 1}
	target := &domain.Conference{ID: confA, Title: "Workshop", TimeSlotID: 1}

	tests := []struct {
		name         string
		body         string
		principal    *domain.Principal
		fake         *fakeRegistrationService
		wantStatus   int
		wantBodyCode string
		check        func(t *testing.T, rr *httptest.ResponseRecorder)
	}{
		{
			name:       "success",
			body:       `{"conference_id":"` + confA + `"}`,
			principal:  visitor,
			fake:       &fakeRegistrationService{reg: &domain.Registration{ID: "r1", UserID: "user-123", ConferenceID: confA}},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, rr *httptest.ResponseRecorder) {
				var reg domain.Registration
				envelope := decodeEnvelope(t, rr, &reg)
				assert.Nil(t, envelope.Error)
				assert.Equal(t, "r1", reg.ID)
			},
		},
		{
			name:         "time conflict carries both conferences",
			body:         `{"conference_id":"` + confA + `"}`,
			principal:    visitor,
			fake:         &fakeRegistrationService{conflict: &domain.RegistrationConflict{ExistingConference: existing, NewConference: target, TimeSlot: &domain.TimeSlot{ID: 1}}},
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeTimeConflict,
			check: func(t *testing.T, rr *httptest.ResponseRecorder) {
				var conflict domain.RegistrationConflict
				decodeEnvelope(t, rr, &conflict)
				assert.Equal(t, confB, conflict.ExistingConference.ID)
				assert.Equal(t, confA, conflict.NewConference.ID)
			},
		},
		{
			name:         "already registered",
			body:         `{"conference_id":"` + confA + `"}`,
			principal:    visitor,
			fake:         &fakeRegistrationService{err: domain.ErrAlreadyRegistered},
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeAlreadyRegistered,
		},
		{
			name:         "unknown conference",
			body:         `{"conference_id":"` + confA + `"}`,
			principal:    visitor,
			fake:         &fakeRegistrationService{err: domain.ErrNotFound},
			wantStatus:   http.StatusNotFound,
			wantBodyCode: helpers.ErrCodeNotFound,
		},
		{
			name:         "invalid conference id",
			body:         `{"conference_id":"abc"}`,
			principal:    visitor,
			fake:         &fakeRegistrationService{},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "no principal",
			body:         `{"conference_id":"` + confA + `"}`,
			fake:         &fakeRegistrationService{},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "store failure",
			body:         `{"conference_id":"` + confA + `"}`,
			principal:    visitor,
			fake:         &fakeRegistrationService{err: errors.New("create registration: connection reset")},
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewRegistrationController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/registrations", strings.NewReader(tt.body))
			req = req.WithContext(asPrincipal(req.Context(), tt.principal))
			rr := httptest.NewRecorder()

			ctrl.Register(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.check != nil {
				tt.check(t, rr)
				return
			}
			envelope := decodeEnvelope(t, rr, nil)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}

func TestRegistrationController_Register_UsesCaller(t *testing.T) {
	fake := &fakeRegistrationService{reg: &domain.Registration{ID: "r1"}}
	ctrl := NewRegistrationController(testLogger, fake)
	req := httptest.NewRequest(http.MethodPost, "http://test/registrations", strings.NewReader(`{"conference_id":"`+confA+`"}`))
	req = req.WithContext(asPrincipal(req.Context(), visitor))
	ctrl.Register(httptest.NewRecorder(), req)
	assert.Equal(t, "user-123", fake.lastUserID)
	assert.Equal(t, confA, fake.lastConfID)
}

func TestRegistrationController_Replace(t *testing.T) {
	body := `{"old_conference_id":"` + confA + `","new_conference_id":"` + confB + `"}`

	tests := []struct {
		name         string
		body         string
		fake         *fakeRegistrationService
		wantStatus   int
		wantBodyCode string
		wantStatusIn domain.ReplaceStatus
	}{
		{
			name:         "atomic success",
			body:         body,
			fake:         &fakeRegistrationService{outcome: &domain.ReplaceOutcome{Status: domain.ReplaceSuccess, Path: domain.ReplacePathAtomic, Registration: &domain.Registration{ID: "r2"}}},
			wantStatus:   http.StatusOK,
			wantStatusIn: domain.ReplaceSuccess,
		},
		{
			name: "rolled back after insert failure",
			body: body,
			fake: &fakeRegistrationService{
				outcome: &domain.ReplaceOutcome{Status: domain.ReplaceRolledBack, Path: domain.ReplacePathDegraded, Detail: "insert failed"},
				err:     fmt.Errorf("%w: %w", domain.ErrReplaceRolledBack, errors.New("insert failed")),
			},
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeConflict,
			wantStatusIn: domain.ReplaceRolledBack,
		},
		{
			name: "already registered in target",
			body: body,
			fake: &fakeRegistrationService{
				outcome: &domain.ReplaceOutcome{Status: domain.ReplaceRolledBack, Path: domain.ReplacePathAtomic},
				err:     fmt.Errorf("%w: %w", domain.ErrReplaceRolledBack, domain.ErrAlreadyRegistered),
			},
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeAlreadyRegistered,
			wantStatusIn: domain.ReplaceRolledBack,
		},
		{
			name: "partial failure is explicit",
			body: body,
			fake: &fakeRegistrationService{
				outcome: &domain.ReplaceOutcome{Status: domain.ReplacePartialFailure, Path: domain.ReplacePathDegraded, Detail: "restore failed"},
				err:     fmt.Errorf("%w: %w", domain.ErrReplacePartialFailure, errors.New("insert failed")),
			},
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodePartialFailure,
			wantStatusIn: domain.ReplacePartialFailure,
		},
		{
			name:         "same conference twice",
			body:         `{"old_conference_id":"` + confA + `","new_conference_id":"` + confA + `"}`,
			fake:         &fakeRegistrationService{},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewRegistrationController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/registrations/replace", strings.NewReader(tt.body))
			req = req.WithContext(asPrincipal(req.Context(), visitor))
			rr := httptest.NewRecorder()

			ctrl.Replace(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var outcome domain.ReplaceOutcome
			envelope := decodeEnvelope(t, rr, &outcome)
			if tt.wantBodyCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
			if tt.wantStatusIn != "" {
				assert.Equal(t, tt.wantStatusIn, outcome.Status)
			}
		})
	}
}

func TestRegistrationController_Unregister(t *testing.T) {
	fake := &fakeRegistrationService{}
	ctrl := NewRegistrationController(testLogger, fake)
	req := httptest.NewRequest(http.MethodDelete, "http://test/registrations/"+confA, nil)
	req.SetPathValue("conferenceID", confA)
	req = req.WithContext(asPrincipal(req.Context(), visitor))
	rr := httptest.NewRecorder()

	ctrl.Unregister(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, confA, fake.lastConfID)

	fake.err = errors.New("delete registration: timeout")
	rr = httptest.NewRecorder()
	ctrl.Unregister(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRegistrationController_CheckConflict(t *testing.T) {
	fake := &fakeRegistrationService{}
	ctrl := NewRegistrationController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "http://test/registrations/conflicts?conference_id="+confA, nil)
	req = req.WithContext(asPrincipal(req.Context(), visitor))
	rr := httptest.NewRecorder()

	ctrl.CheckConflict(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp ConflictCheckResponse
	decodeEnvelope(t, rr, &resp)
	assert.Nil(t, resp.Conflict)
}

func TestRegistrationController_Schedule(t *testing.T) {
	ctrl := NewRegistrationController(testLogger, &fakeRegistrationService{})
	req := httptest.NewRequest(http.MethodGet, "http://test/registrations/schedule", nil)
	req = req.WithContext(asPrincipal(req.Context(), visitor))
	rr := httptest.NewRecorder()

	ctrl.Schedule(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var days []domain.ScheduleDay
	decodeEnvelope(t, rr, &days)
	assert.Len(t, days, 3)
}

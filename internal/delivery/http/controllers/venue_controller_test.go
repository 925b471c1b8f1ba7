package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradefair/internal/domain"
)

type fakeVenueService struct {
	rooms []*domain.Room
	slots []*domain.TimeSlot
	err   error
}

func (f *fakeVenueService) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	return f.rooms, f.err
}

func (f *fakeVenueService) CreateRoom(ctx context.Context, room *domain.Room) error {
	if f.err != nil {
		return f.err
	}
	room.ID = 7
	return nil
}

func (f *fakeVenueService) ListTimeSlots(ctx context.Context) ([]*domain.TimeSlot, error) {
	return f.slots, f.err
}

func (f *fakeVenueService) CreateTimeSlot(ctx context.Context, day int, startTime, endTime string) (*domain.TimeSlot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.TimeSlot{ID: 1, Day: day, StartTime: startTime, EndTime: endTime}, nil
}

type fakeAvailabilityService struct {
	available   bool
	err         error
	lastExclude string
}

func (f *fakeAvailabilityService) IsSlotAvailable(ctx context.Context, roomID, timeSlotID int64, excludeConferenceID string) (bool, error) {
	f.lastExclude = excludeConferenceID
	return f.available, f.err
}

func (f *fakeAvailabilityService) RoomAvailability(ctx context.Context, roomID int64) ([]*domain.SlotAvailability, error) {
	return []*domain.SlotAvailability{
		{TimeSlot: &domain.TimeSlot{ID: 1}, Available: true},
		{TimeSlot: &domain.TimeSlot{ID: 2}, Available: false},
	}, f.err
}

func TestVenueController_CreateRoom(t *testing.T) {
	ctrl := NewVenueController(testLogger, &fakeVenueService{}, &fakeAvailabilityService{})
	req := httptest.NewRequest(http.MethodPost, "http://test/rooms", strings.NewReader(`{"name":"Hall A"}`))
	rr := httptest.NewRecorder()

	ctrl.CreateRoom(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var room domain.Room
	decodeEnvelope(t, rr, &room)
	assert.Equal(t, int64(7), room.ID)
	assert.Equal(t, "Hall A", room.Name)
}

func TestVenueController_CreateTimeSlot(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"created", `{"day":2,"start_time":"09:00","end_time":"10:00"}`, nil, http.StatusCreated},
		{"missing times", `{"day":2}`, nil, http.StatusBadRequest},
		{"rejected by service", `{"day":5,"start_time":"09:00","end_time":"10:00"}`, domain.ErrInvalidInput, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewVenueController(testLogger, &fakeVenueService{err: tt.err}, &fakeAvailabilityService{})
			req := httptest.NewRequest(http.MethodPost, "http://test/time-slots", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			ctrl.CreateTimeSlot(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestVenueController_CheckAvailability(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"available", "?room_id=1&time_slot_id=2&exclude_id=" + confA, http.StatusOK},
		{"missing slot", "?room_id=1", http.StatusBadRequest},
		{"negative room", "?room_id=-1&time_slot_id=2", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avail := &fakeAvailabilityService{available: true}
			ctrl := NewVenueController(testLogger, &fakeVenueService{}, avail)
			req := httptest.NewRequest(http.MethodGet, "http://test/availability"+tt.query, nil)
			rr := httptest.NewRecorder()

			ctrl.CheckAvailability(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got AvailabilityResponse
			decodeEnvelope(t, rr, &got)
			assert.True(t, got.Available)
			assert.Equal(t, int64(2), got.TimeSlotID)
			assert.Equal(t, confA, avail.lastExclude)
		})
	}
}

func TestVenueController_RoomAvailability(t *testing.T) {
	ctrl := NewVenueController(testLogger, &fakeVenueService{}, &fakeAvailabilityService{})
	req := httptest.NewRequest(http.MethodGet, "http://test/rooms/3/availability", nil)
	req.SetPathValue("roomID", "3")
	rr := httptest.NewRecorder()

	ctrl.RoomAvailability(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got []domain.SlotAvailability
	decodeEnvelope(t, rr, &got)
	require.Len(t, got, 2)
	assert.False(t, got[1].Available)
}

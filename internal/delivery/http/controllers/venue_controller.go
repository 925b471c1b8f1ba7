package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tradefair/internal/delivery/http/helpers"
	"tradefair/internal/domain"
)

// CreateRoomRequest is the request body for POST /rooms.
type CreateRoomRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// Validate implements Validator.
func (c CreateRoomRequest) Validate() []string {
	if strings.TrimSpace(c.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

// CreateTimeSlotRequest is the request body for POST /time-slots.
type CreateTimeSlotRequest struct {
	Day       int    `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Validate implements Validator. Format and ordering are checked by the service.
func (c CreateTimeSlotRequest) Validate() []string {
	var errs []string
	if c.Day == 0 {
		errs = append(errs, "day is required")
	}
	if c.StartTime == "" || c.EndTime == "" {
		errs = append(errs, "start_time and end_time are required")
	}
	return errs
}

// AvailabilityResponse is the data payload for GET /availability.
type AvailabilityResponse struct {
	RoomID     int64 `json:"room_id"`
	TimeSlotID int64 `json:"time_slot_id"`
	Available  bool  `json:"available"`
}

// VenueController handles rooms, time slots and slot availability.
type VenueController struct {
	Logger       *slog.Logger
	Venue        domain.VenueService
	Availability domain.AvailabilityService
}

// NewVenueController creates a VenueController.
func NewVenueController(logger *slog.Logger, venue domain.VenueService, availability domain.AvailabilityService) *VenueController {
	return &VenueController{Logger: logger, Venue: venue, Availability: availability}
}

// ListRooms godoc
// @Summary List rooms
// @Tags venue
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the rooms ordered by name"
// @Router /rooms [get]
func (c *VenueController) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := c.Venue.ListRooms(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rooms)
}

// CreateRoom godoc
// @Summary Create a room
// @Tags venue
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRoomRequest true "Room data"
// @Success 201 {object} helpers.APIResponse "data contains the created room"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /rooms [post]
func (c *VenueController) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	room := domain.NewRoom(req.Name, req.Description, time.Now())
	if err := c.Venue.CreateRoom(r.Context(), room); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, room)
}

// ListTimeSlots godoc
// @Summary List time slots
// @Tags venue
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the time slots ordered by day and start time"
// @Router /time-slots [get]
func (c *VenueController) ListTimeSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := c.Venue.ListTimeSlots(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, slots)
}

// CreateTimeSlot godoc
// @Summary Create a time slot
// @Description day is 1 to 3, times use HH:MM and start_time must be before end_time.
// @Tags venue
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateTimeSlotRequest true "Time slot data"
// @Success 201 {object} helpers.APIResponse "data contains the created time slot"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /time-slots [post]
func (c *VenueController) CreateTimeSlot(w http.ResponseWriter, r *http.Request) {
	var req CreateTimeSlotRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	slot, err := c.Venue.CreateTimeSlot(r.Context(), req.Day, req.StartTime, req.EndTime)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, slot)
}

// CheckAvailability godoc
// @Summary Check whether a room is free during a time slot
// @Description exclude_id ignores one conference, for edits that keep their slot.
// @Tags venue
// @Produce json
// @Security BearerAuth
// @Param room_id query int true "Room ID"
// @Param time_slot_id query int true "Time slot ID"
// @Param exclude_id query string false "Conference ID to ignore"
// @Success 200 {object} helpers.APIResponse "data.available"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /availability [get]
func (c *VenueController) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	roomID, err1 := strconv.ParseInt(q.Get("room_id"), 10, 64)
	slotID, err2 := strconv.ParseInt(q.Get("time_slot_id"), 10, 64)
	if err1 != nil || err2 != nil || roomID <= 0 || slotID <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "room_id and time_slot_id must be positive integers")
		return
	}
	available, err := c.Availability.IsSlotAvailable(r.Context(), roomID, slotID, q.Get("exclude_id"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AvailabilityResponse{RoomID: roomID, TimeSlotID: slotID, Available: available})
}

// RoomAvailability godoc
// @Summary List a room's availability for every time slot
// @Tags venue
// @Produce json
// @Security BearerAuth
// @Param roomID path int true "Room ID"
// @Success 200 {object} helpers.APIResponse "data contains one entry per time slot"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /rooms/{roomID}/availability [get]
func (c *VenueController) RoomAvailability(w http.ResponseWriter, r *http.Request) {
	roomID, ok := helpers.PathInt64(r, "roomID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid roomID")
		return
	}
	slots, err := c.Availability.RoomAvailability(r.Context(), roomID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, slots)
}

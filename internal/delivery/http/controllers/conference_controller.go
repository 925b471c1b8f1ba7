package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"tradefair/internal/delivery/http/helpers"
	"tradefair/internal/domain"
)

// ConferenceRequest is the request body for POST /conferences and PUT /conferences/{conferenceID}.
type ConferenceRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	SpeakerID   string  `json:"speaker_id"`
	RoomID      int64   `json:"room_id"`
	TimeSlotID  int64   `json:"time_slot_id"`
	SponsorID   *string `json:"sponsor_id,omitempty"`
}

// Validate implements Validator.
func (c ConferenceRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.SpeakerID == "" {
		errs = append(errs, "speaker_id is required")
	}
	if c.RoomID <= 0 {
		errs = append(errs, "room_id is required")
	}
	if c.TimeSlotID <= 0 {
		errs = append(errs, "time_slot_id is required")
	}
	return errs
}

func (c ConferenceRequest) input() domain.ConferenceInput {
	return domain.ConferenceInput{
		Title:       c.Title,
		Description: c.Description,
		SpeakerID:   c.SpeakerID,
		RoomID:      c.RoomID,
		TimeSlotID:  c.TimeSlotID,
		SponsorID:   c.SponsorID,
	}
}

// ConferenceSuccessResponse is the success response envelope for single-conference endpoints.
type ConferenceSuccessResponse struct {
	Data  *domain.Conference `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListConferencesSuccessResponse is the success response envelope for conference lists (200).
type ListConferencesSuccessResponse struct {
	Data  []*domain.Conference `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ConferenceController handles conference endpoints.
type ConferenceController struct {
	Logger  *slog.Logger
	Service domain.ConferenceService
}

// NewConferenceController creates a ConferenceController with the given logger and service.
func NewConferenceController(logger *slog.Logger, svc domain.ConferenceService) *ConferenceController {
	return &ConferenceController{Logger: logger, Service: svc}
}

// List godoc
// @Summary List conferences
// @Description Newest first, with speaker, room and time slot. Filters combine.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param day query int false "Event day (1-3)"
// @Param room_id query int false "Room ID"
// @Param speaker query string false "Exact speaker name"
// @Param q query string false "Search title, description and speaker name"
// @Success 200 {object} controllers.ListConferencesSuccessResponse "data contains the conferences"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /conferences [get]
func (c *ConferenceController) List(w http.ResponseWriter, r *http.Request) {
	day, ok := helpers.QueryInt(r, "day", 0)
	if !ok || day < 0 || day > domain.LastDay {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "day must be between 1 and 3")
		return
	}
	roomID, ok := helpers.QueryInt(r, "room_id", 0)
	if !ok || roomID < 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid room_id")
		return
	}
	q := r.URL.Query()
	conferences, err := c.Service.List(r.Context(), domain.ConferenceFilter{
		Day:         day,
		RoomID:      int64(roomID),
		SpeakerName: q.Get("speaker"),
		Search:      strings.TrimSpace(q.Get("q")),
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conferences)
}

// ListByRoom godoc
// @Summary List a room's conferences
// @Description Ordered by day and start time.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param roomID path int true "Room ID"
// @Success 200 {object} controllers.ListConferencesSuccessResponse "data contains the conferences"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /rooms/{roomID}/conferences [get]
func (c *ConferenceController) ListByRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := helpers.PathInt64(r, "roomID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid roomID")
		return
	}
	conferences, err := c.Service.ListByRoom(r.Context(), roomID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conferences)
}

// Get godoc
// @Summary Get a conference
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID (UUID)"
// @Success 200 {object} controllers.ConferenceSuccessResponse "data contains the conference"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceID} [get]
func (c *ConferenceController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(r, "conferenceID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conferenceID")
		return
	}
	conference, err := c.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conference)
}

// Create godoc
// @Summary Create a conference
// @Description The room must be free during the time slot.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ConferenceRequest true "Conference data"
// @Success 201 {object} controllers.ConferenceSuccessResponse "data contains the created conference"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (slot unavailable)"
// @Router /conferences [post]
func (c *ConferenceController) Create(w http.ResponseWriter, r *http.Request) {
	var req ConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	conference, err := c.Service.Create(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, conference)
}

// Update godoc
// @Summary Replace a conference's fields
// @Description Organizers may edit any conference; sponsors only the ones they sponsor.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID (UUID)"
// @Param body body ConferenceRequest true "Conference data"
// @Success 200 {object} controllers.ConferenceSuccessResponse "data contains the updated conference"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (slot unavailable)"
// @Router /conferences/{conferenceID} [put]
func (c *ConferenceController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(r, "conferenceID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conferenceID")
		return
	}
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var req ConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	conference, err := c.Service.Update(r.Context(), p, id, req.input())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conference)
}

// Delete godoc
// @Summary Delete a conference
// @Tags conferences
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID (UUID)"
// @Success 204 "conference deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceID} [delete]
func (c *ConferenceController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(r, "conferenceID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conferenceID")
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRegistrations godoc
// @Summary List a conference's registrations with attendee profiles
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains registrations with profiles"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceID}/registrations [get]
func (c *ConferenceController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(r, "conferenceID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conferenceID")
		return
	}
	regs, err := c.Service.ListRegistrations(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

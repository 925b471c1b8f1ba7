package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"tradefair/internal/delivery/http/helpers"
	"tradefair/internal/domain"
)

// RegisterRequest is the request body for POST /registrations.
type RegisterRequest struct {
	ConferenceID string `json:"conference_id"`
}

// Validate implements Validator.
func (r RegisterRequest) Validate() []string {
	if _, err := uuid.Parse(r.ConferenceID); err != nil {
		return []string{"conference_id must be a UUID"}
	}
	return nil
}

// ReplaceRequest is the request body for POST /registrations/replace.
type ReplaceRequest struct {
	OldConferenceID string `json:"old_conference_id"`
	NewConferenceID string `json:"new_conference_id"`
}

// Validate implements Validator.
func (r ReplaceRequest) Validate() []string {
	var errs []string
	if _, err := uuid.Parse(r.OldConferenceID); err != nil {
		errs = append(errs, "old_conference_id must be a UUID")
	}
	if _, err := uuid.Parse(r.NewConferenceID); err != nil {
		errs = append(errs, "new_conference_id must be a UUID")
	}
	if len(errs) == 0 && r.OldConferenceID == r.NewConferenceID {
		errs = append(errs, "old_conference_id and new_conference_id must differ")
	}
	return errs
}

// RegistrationSuccessResponse is the success response envelope for POST /registrations (201).
type RegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// TimeConflictResponse is the 409 envelope for POST /registrations when the time slot is taken.
type TimeConflictResponse struct {
	Data  *domain.RegistrationConflict `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// ReplaceOutcomeResponse is the envelope for POST /registrations/replace; data is always the outcome.
type ReplaceOutcomeResponse struct {
	Data  *domain.ReplaceOutcome `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ConflictCheckResponse is the data payload for GET /registrations/conflicts. Conflict is null when free.
type ConflictCheckResponse struct {
	Conflict *domain.RegistrationConflict `json:"conflict"`
}

// RegistrationController handles the visitor registration workflow. Every handler acts on the caller's own registrations.
type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

// NewRegistrationController creates a RegistrationController with the given logger and service.
func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{Logger: logger, Service: svc}
}

// Register godoc
// @Summary Register for a conference
// @Description Fails with time_conflict, carrying the conflicting registration, when the caller already attends a conference in the same time slot. Nothing is written in that case.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterRequest true "Conference to attend"
// @Success 201 {object} controllers.RegistrationSuccessResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} controllers.TimeConflictResponse "error.code: time_conflict or already_registered"
// @Router /registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, conflict, err := c.Service.Register(r.Context(), p.UserID, req.ConferenceID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if conflict != nil {
		helpers.WriteJSONErrorWithData(w, http.StatusConflict, helpers.ErrCodeTimeConflict,
			"already registered for "+conflict.ExistingConference.Title+" in this time slot", conflict)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// Unregister godoc
// @Summary Cancel a registration
// @Description Succeeds when the caller was not registered.
// @Tags registrations
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID (UUID)"
// @Success 204 "registration removed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{conferenceID} [delete]
func (c *RegistrationController) Unregister(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	conferenceID, ok := helpers.PathUUID(r, "conferenceID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conferenceID")
		return
	}
	if err := c.Service.Unregister(r.Context(), p.UserID, conferenceID); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Replace godoc
// @Summary Swap one registration for another
// @Description Resolves a time conflict. data is the outcome in every case: success, rolled_back (the old registration is still held) or partial_failure (neither is held).
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ReplaceRequest true "Old and new conference"
// @Success 200 {object} controllers.ReplaceOutcomeResponse "data.status: success"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} controllers.ReplaceOutcomeResponse "error.code: not_found"
// @Failure 409 {object} controllers.ReplaceOutcomeResponse "error.code: conflict or already_registered; data.status: rolled_back"
// @Failure 500 {object} controllers.ReplaceOutcomeResponse "error.code: partial_failure or internal_error"
// @Router /registrations/replace [post]
func (c *RegistrationController) Replace(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var req ReplaceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	outcome, err := c.Service.Replace(r.Context(), p.UserID, req.OldConferenceID, req.NewConferenceID)
	if err == nil {
		helpers.WriteJSONSuccess(w, http.StatusOK, outcome)
		return
	}
	if outcome == nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	status, code, known := statusFor(err)
	switch {
	case errors.Is(err, domain.ErrReplacePartialFailure):
		status, code = http.StatusInternalServerError, helpers.ErrCodePartialFailure
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err, "detail", outcome.Detail)
	case !known:
		// The previous registration is back in place.
		status, code = http.StatusConflict, helpers.ErrCodeConflict
		c.Logger.WarnContext(r.Context(), "replace rolled back", "path", r.URL.Path, "err", err)
	}
	helpers.WriteJSONErrorWithData(w, status, code, err.Error(), outcome)
}

// ListMine godoc
// @Summary List the caller's registrations
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains registrations with their conferences, in registration order"
// @Router /registrations [get]
func (c *RegistrationController) ListMine(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	regs, err := c.Service.ListMine(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// CheckConflict godoc
// @Summary Check a conference against the caller's registrations
// @Description data.conflict is null when the caller is free in the conference's time slot.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param conference_id query string true "Conference ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data.conflict"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /registrations/conflicts [get]
func (c *RegistrationController) CheckConflict(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	conferenceID := r.URL.Query().Get("conference_id")
	if _, err := uuid.Parse(conferenceID); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "conference_id must be a UUID")
		return
	}
	conflict := c.Service.CheckTimeConflict(r.Context(), p.UserID, conferenceID)
	helpers.WriteJSONSuccess(w, http.StatusOK, ConflictCheckResponse{Conflict: conflict})
}

// ConferencesWithStatus godoc
// @Summary List conferences with the caller's registration state
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains conferences with is_registered"
// @Router /registrations/conferences [get]
func (c *RegistrationController) ConferencesWithStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	conferences, err := c.Service.ListConferencesWithStatus(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conferences)
}

// Schedule godoc
// @Summary Get the caller's personal schedule
// @Description One entry per event day, conferences ordered by start time.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the schedule days"
// @Router /registrations/schedule [get]
func (c *RegistrationController) Schedule(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	days, err := c.Service.PersonalSchedule(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, days)
}

package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tradefair/internal/delivery/http/helpers"
	"tradefair/internal/domain"
)

// CreateSpeakerRequest is the request body for POST /speakers.
type CreateSpeakerRequest struct {
	Name  string  `json:"name"`
	Photo *string `json:"photo,omitempty"`
	Bio   *string `json:"bio,omitempty"`
}

// Validate implements Validator.
func (c CreateSpeakerRequest) Validate() []string {
	if strings.TrimSpace(c.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

// UpdateSpeakerRequest is the request body for PATCH /speakers/{speakerID}. Omitted fields are unchanged.
type UpdateSpeakerRequest struct {
	Name  *string `json:"name,omitempty"`
	Photo *string `json:"photo,omitempty"`
	Bio   *string `json:"bio,omitempty"`
}

// Validate implements Validator.
func (u UpdateSpeakerRequest) Validate() []string {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return []string{"name cannot be empty"}
	}
	return nil
}

// SpeakerSuccessResponse is the success response envelope for single-speaker endpoints.
type SpeakerSuccessResponse struct {
	Data  *domain.Speaker   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListSpeakersSuccessResponse is the success response envelope for GET /speakers (200).
type ListSpeakersSuccessResponse struct {
	Data  []*domain.Speaker `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SpeakerController handles speaker endpoints.
type SpeakerController struct {
	Logger  *slog.Logger
	Service domain.SpeakerService
}

// NewSpeakerController creates a SpeakerController with the given logger and service.
func NewSpeakerController(logger *slog.Logger, svc domain.SpeakerService) *SpeakerController {
	return &SpeakerController{Logger: logger, Service: svc}
}

// List godoc
// @Summary List or search speakers
// @Description Speakers ordered by name. With q, only names containing q (case-insensitive).
// @Tags speakers
// @Produce json
// @Security BearerAuth
// @Param q query string false "Name search"
// @Success 200 {object} controllers.ListSpeakersSuccessResponse "data contains the speakers"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers [get]
func (c *SpeakerController) List(w http.ResponseWriter, r *http.Request) {
	var (
		speakers []*domain.Speaker
		err      error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		speakers, err = c.Service.Search(r.Context(), q)
	} else {
		speakers, err = c.Service.List(r.Context())
	}
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, speakers)
}

// Get godoc
// @Summary Get a speaker
// @Tags speakers
// @Produce json
// @Security BearerAuth
// @Param speakerID path string true "Speaker ID (UUID)"
// @Success 200 {object} controllers.SpeakerSuccessResponse "data contains the speaker"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /speakers/{speakerID} [get]
func (c *SpeakerController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(r, "speakerID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid speakerID")
		return
	}
	speaker, err := c.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, speaker)
}

// Create godoc
// @Summary Create a speaker
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSpeakerRequest true "Speaker data"
// @Success 201 {object} controllers.SpeakerSuccessResponse "data contains the created speaker"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /speakers [post]
func (c *SpeakerController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSpeakerRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	now := time.Now()
	speaker := domain.NewSpeaker(req.Name, req.Photo, req.Bio, now, now)
	if err := c.Service.Create(r.Context(), speaker); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, speaker)
}

// Update godoc
// @Summary Update a speaker
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param speakerID path string true "Speaker ID (UUID)"
// @Param body body UpdateSpeakerRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.SpeakerSuccessResponse "data contains the updated speaker"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /speakers/{speakerID} [patch]
func (c *SpeakerController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(r, "speakerID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid speakerID")
		return
	}
	var req UpdateSpeakerRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	speaker, err := c.Service.Update(r.Context(), id, domain.SpeakerUpdate{Name: req.Name, Photo: req.Photo, Bio: req.Bio})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, speaker)
}

// Delete godoc
// @Summary Delete a speaker
// @Description Rejected with 409 while any conference references the speaker.
// @Tags speakers
// @Security BearerAuth
// @Param speakerID path string true "Speaker ID (UUID)"
// @Success 204 "speaker deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (speaker in use)"
// @Router /speakers/{speakerID} [delete]
func (c *SpeakerController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(r, "speakerID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid speakerID")
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

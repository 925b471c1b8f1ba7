package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"tradefair/internal/delivery/http/helpers"
	"tradefair/internal/domain"
)

// UpdateProfileRequest is the request body for PATCH /profiles/me. All fields optional; omitted fields are unchanged.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Company   *string `json:"company,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// Validate implements Validator.
func (u UpdateProfileRequest) Validate() []string {
	var errs []string
	if u.FirstName != nil && strings.TrimSpace(*u.FirstName) == "" {
		errs = append(errs, "first_name cannot be empty")
	}
	if u.LastName != nil && strings.TrimSpace(*u.LastName) == "" {
		errs = append(errs, "last_name cannot be empty")
	}
	return errs
}

// ChangeRoleRequest is the request body for PATCH /profiles/{userID}/role.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// Validate implements Validator.
func (c ChangeRoleRequest) Validate() []string {
	if _, err := domain.ParseRole(c.Role); err != nil {
		return []string{`role must be "organizer", "visitor" or "sponsor"`}
	}
	return nil
}

// ProfileSuccessResponse is the success response envelope for single-profile endpoints (200).
type ProfileSuccessResponse struct {
	Data  *domain.Profile   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListProfilesResponse is the data payload for GET /profiles.
type ListProfilesResponse struct {
	Items      []*domain.Profile      `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ProfileController handles profile endpoints.
type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

// NewProfileController creates a ProfileController with the given logger and service.
func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{
		Logger:  logger,
		Service: svc,
	}
}

// GetMe godoc
// @Summary Get current user's profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProfileSuccessResponse "data contains the profile"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles/me [get]
func (c *ProfileController) GetMe(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	profile, err := c.Service.GetByID(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary Update current user's profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.ProfileSuccessResponse "data contains the updated profile"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /profiles/me [patch]
func (c *ProfileController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	profile, err := c.Service.Update(r.Context(), p.UserID, domain.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Phone:     req.Phone,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}

// List godoc
// @Summary List profiles
// @Description Paginated list of all profiles, or every profile with the given role when role is set.
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param role query string false "organizer, visitor or sponsor"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data.items and data.pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /profiles [get]
func (c *ProfileController) List(w http.ResponseWriter, r *http.Request) {
	if role := r.URL.Query().Get("role"); role != "" {
		profiles, err := c.Service.ListByRole(r.Context(), domain.Role(role))
		if err != nil {
			writeServiceError(w, r, c.Logger, err)
			return
		}
		all := domain.PaginationParams{Page: 1, PageSize: max(len(profiles), 1)}
		helpers.WriteJSONSuccess(w, http.StatusOK, ListProfilesResponse{Items: profiles, Pagination: helpers.NewPaginationMeta(all, len(profiles))})
		return
	}
	params := helpers.ParsePagination(r)
	profiles, total, err := c.Service.List(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListProfilesResponse{Items: profiles, Pagination: helpers.NewPaginationMeta(params, total)})
}

// ChangeRole godoc
// @Summary Change a user's role
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID (UUID)"
// @Param body body ChangeRoleRequest true "New role"
// @Success 200 {object} controllers.ProfileSuccessResponse "data contains the updated profile"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /profiles/{userID}/role [patch]
func (c *ProfileController) ChangeRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathUUID(r, "userID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid userID")
		return
	}
	var req ChangeRoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	profile, err := c.Service.ChangeRole(r.Context(), userID, domain.Role(req.Role))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}

package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "tradefair/internal/delivery/http/helpers"
	"tradefair/internal/domain"
)

// SignUpRequest is the request body for POST /auth/signup
type SignUpRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Role      string  `json:"role"` // organizer, visitor or sponsor
	Company   *string `json:"company,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// Validate implements Validator.
func (s SignUpRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Email) == "" {
		errs = append(errs, "email is required")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	}
	if strings.TrimSpace(s.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(s.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if _, err := domain.ParseRole(strings.ToLower(strings.TrimSpace(s.Role))); err != nil {
		errs = append(errs, `role must be "organizer", "visitor" or "sponsor"`)
	}
	return errs
}

// SignInRequest is the request body for POST /auth/signin
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l SignInRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// UpdateUserRequest is the request body for PATCH /auth/user. Omitted fields are unchanged.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Validate implements Validator.
func (u UpdateUserRequest) Validate() []string {
	if u.Email == nil && u.Password == nil {
		return []string{"email or password is required"}
	}
	return nil
}

// PasswordResetRequest is the request body for POST /auth/password-reset
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (p PasswordResetRequest) Validate() []string {
	if strings.TrimSpace(p.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// ConfirmPasswordResetRequest is the request body for POST /auth/password-reset/confirm
type ConfirmPasswordResetRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (c ConfirmPasswordResetRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(c.Code) == "" {
		errs = append(errs, "code is required")
	}
	if c.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// PermissionsResponse is the data payload for GET /auth/permissions.
type PermissionsResponse struct {
	Role         domain.Role         `json:"role"`
	Capabilities []domain.Capability `json:"capabilities"`
}

// EmailExistsResponse is the data payload for GET /auth/email-exists.
type EmailExistsResponse struct {
	Exists bool `json:"exists"`
}

// SessionTokenSuccessResponse is the success response envelope for sign-up (201) and sign-in (200).
type SessionTokenSuccessResponse struct {
	Data  *domain.SessionToken `json:"data"`
	Error *h.APIError          `json:"error"`
}

// AuthUserSuccessResponse is the success response envelope for GET and PATCH /auth/user (200).
type AuthUserSuccessResponse struct {
	Data  *domain.AuthUser `json:"data"`
	Error *h.APIError      `json:"error"`
}

// StatusResponse is a generic acknowledgement payload.
type StatusResponse struct {
	Status string `json:"status"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// SignUp godoc
// @Summary Sign up a new user
// @Description Creates the identity and its profile, then opens a session. When the profile cannot be created the identity is removed and error.code is profile_creation_failed.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Sign-up data"
// @Success 201 {object} controllers.SessionTokenSuccessResponse "data contains the session token and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email in use)"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: profile_creation_failed or internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.SignUp(r.Context(), domain.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(strings.ToLower(strings.TrimSpace(req.Role))),
		Company:   req.Company,
		Phone:     req.Phone,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, token)
}

// SignIn godoc
// @Summary Sign in
// @Description Authenticate with email and password. Returns a bearer token bound to a server-side session.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignInRequest true "Credentials"
// @Success 200 {object} controllers.SessionTokenSuccessResponse "data contains the session token and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signin [post]
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, token)
}

// SignOut godoc
// @Summary Sign out
// @Description Revokes the caller's session.
// @Tags auth
// @Security BearerAuth
// @Success 204 "session revoked"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signout [post]
func (c *AuthController) SignOut(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if err := c.Service.SignOut(r.Context(), p.SessionID); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session godoc
// @Summary Get the current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the session"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /auth/session [get]
func (c *AuthController) Session(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	session, err := c.Service.GetSession(r.Context(), p.SessionID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, session)
}

// User godoc
// @Summary Get the current user
// @Description Returns the identity merged with its profile; profile is omitted when it could not be loaded.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.AuthUserSuccessResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /auth/user [get]
func (c *AuthController) User(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	user, err := c.Service.GetUser(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateUser godoc
// @Summary Update email or password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateUserRequest true "Fields to update"
// @Success 200 {object} controllers.AuthUserSuccessResponse "data contains the user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email in use)"
// @Router /auth/user [patch]
func (c *AuthController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.UpdateUser(r.Context(), p.UserID, domain.UserUpdate{Email: req.Email, Password: req.Password})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

// Permissions godoc
// @Summary List the caller's capabilities
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains role and capabilities"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /auth/permissions [get]
func (c *AuthController) Permissions(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	caps := p.Role.Capabilities()
	if caps == nil {
		caps = []domain.Capability{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, PermissionsResponse{Role: p.Role, Capabilities: caps})
}

// RequestPasswordReset godoc
// @Summary Request a password reset code
// @Description Always answers 202; a code is mailed only when the address belongs to an account.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body PasswordResetRequest true "Account email"
// @Success 202 {object} helpers.APIResponse "data.status: sent"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Router /auth/password-reset [post]
func (c *AuthController) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusAccepted, StatusResponse{Status: "sent"})
}

// ConfirmPasswordReset godoc
// @Summary Set a new password with a reset code
// @Description Consumes the code, sets the password and revokes every session of the account.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ConfirmPasswordResetRequest true "Email, code and new password"
// @Success 200 {object} helpers.APIResponse "data.status: password_updated"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Router /auth/password-reset/confirm [post]
func (c *AuthController) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPasswordResetRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ConfirmPasswordReset(r.Context(), req.Email, req.Code, req.Password); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "password_updated"})
}

// DeleteAccount godoc
// @Summary Delete the caller's account
// @Description Removes the identity, profile, registrations, sponsored conferences and sessions.
// @Tags auth
// @Security BearerAuth
// @Success 204 "account deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /auth/account [delete]
func (c *AuthController) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteAccount(r.Context(), p.UserID); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckEmailExists godoc
// @Summary Check whether an email belongs to a profile
// @Tags auth
// @Produce json
// @Param email query string true "Email address"
// @Success 200 {object} helpers.APIResponse "data.exists"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /auth/email-exists [get]
func (c *AuthController) CheckEmailExists(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "email is required")
		return
	}
	exists, err := c.Service.CheckEmailExists(r.Context(), email)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, EmailExistsResponse{Exists: exists})
}

package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"tradefair/internal/delivery/http/helpers"
	"tradefair/internal/delivery/http/middleware"
	"tradefair/internal/domain"
)

// statusFor maps a service error to an HTTP status and error code. ok is false for
// errors that are not part of the API contract.
func statusFor(err error) (status int, code string, ok bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidResetCode):
		return http.StatusBadRequest, helpers.ErrCodeBadRequest, true
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, helpers.ErrCodeUnauthorized, true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, helpers.ErrCodeForbidden, true
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, helpers.ErrCodeNotFound, true
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return http.StatusConflict, helpers.ErrCodeAlreadyRegistered, true
	case errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, domain.ErrNotRegistered),
		errors.Is(err, domain.ErrSlotUnavailable), errors.Is(err, domain.ErrSpeakerInUse):
		return http.StatusConflict, helpers.ErrCodeConflict, true
	case errors.Is(err, domain.ErrProfileCreationFailed):
		return http.StatusInternalServerError, helpers.ErrCodeProfileCreationFailed, true
	case errors.Is(err, domain.ErrAgendaUnavailable):
		return http.StatusBadGateway, helpers.ErrCodeBadGateway, true
	}
	return http.StatusInternalServerError, helpers.ErrCodeInternalError, false
}

// writeServiceError writes the envelope for err. Errors outside the API contract and
// server-side failures are logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code, known := statusFor(err)
	if !known || status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	helpers.WriteJSONError(w, status, code, err.Error())
}

// requirePrincipal returns the authenticated caller or writes 401.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (*domain.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return nil, false
	}
	return p, true
}

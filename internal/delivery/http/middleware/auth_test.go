package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"tradefair/internal/delivery/http/helpers"
	"tradefair/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthenticator implements domain.Authenticator for tests.
type fakeAuthenticator struct {
	principal *domain.Principal
	err       error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, _ string) (*domain.Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.principal, nil
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	visitor := &domain.Principal{UserID: "user-123", SessionID: "s-1", Role: domain.RoleVisitor}

	tests := []struct {
		name          string
		authHeader    string
		authn         domain.Authenticator
		wantStatus    int
		wantBodyCode  string
		nextCalled    bool
		wantContextID string
	}{
		{
			name:          "valid token sets context and calls next",
			authHeader:    "Bearer valid-token",
			authn:         &fakeAuthenticator{principal: visitor},
			wantStatus:    http.StatusOK,
			nextCalled:    true,
			wantContextID: "user-123",
		},
		{
			name:         "missing authorization header",
			authn:        &fakeAuthenticator{principal: visitor},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "invalid authorization format no Bearer prefix",
			authHeader:   "Basic abc",
			authn:        &fakeAuthenticator{principal: visitor},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "empty token after Bearer",
			authHeader:   "Bearer ",
			authn:        &fakeAuthenticator{principal: visitor},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "revoked or expired session",
			authHeader:   "Bearer bad-token",
			authn:        &fakeAuthenticator{err: domain.ErrInvalidToken},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "session lookup failure",
			authHeader:   "Bearer token",
			authn:        &fakeAuthenticator{err: errors.New("connection refused")},
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var capturedUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if p, ok := PrincipalFromContext(r.Context()); ok {
					capturedUserID = p.UserID
				}
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireAuth(tt.authn, logger)(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/profiles/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.nextCalled && tt.wantContextID != "" {
				assert.Equal(t, tt.wantContextID, capturedUserID, "user ID in context")
			}
			if tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

func TestRequireCapability(t *testing.T) {
	tests := []struct {
		name       string
		principal  *domain.Principal
		wantStatus int
	}{
		{"organizer may manage", &domain.Principal{UserID: "u", Role: domain.RoleOrganizer}, http.StatusOK},
		{"visitor may not manage", &domain.Principal{UserID: "u", Role: domain.RoleVisitor}, http.StatusForbidden},
		{"profile-less user has no capabilities", &domain.Principal{UserID: "u"}, http.StatusForbidden},
		{"no principal", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireCapability(domain.CapManageConferences)(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodPost, "http://test/speakers", nil)
			if tt.principal != nil {
				req = req.WithContext(SetPrincipal(req.Context(), tt.principal))
			}
			rr := httptest.NewRecorder()
			handler(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "anon-key"

func writeEnvelope(w http.ResponseWriter, status int, data any, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"data": data, "error": nil}
	if code != "" {
		body["error"] = map[string]string{"code": code, "message": message}
	}
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/", testAPIKey)
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		key     string
		wantErr string
	}{
		{name: "ok", url: "http://localhost:8080", key: "k"},
		{name: "missing url", key: "k", wantErr: "base URL"},
		{name: "missing key", url: "http://localhost:8080", wantErr: "API key"},
		{name: "both missing", url: " ", wantErr: "base URL and API key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.url, tt.key)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, ErrMissingConfig)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.url, c.BaseURL)
		})
	}
}

func TestNewClientFromEnv(t *testing.T) {
	t.Setenv(EnvURL, "http://api.test/")
	t.Setenv(EnvAPIKey, "key")
	c, err := NewClientFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http://api.test", c.BaseURL)

	t.Setenv(EnvAPIKey, "")
	_, err = NewClientFromEnv()
	assert.ErrorIs(t, err, ErrMissingConfig)
}

func TestClient_SendsHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testAPIKey, r.Header.Get("apikey"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/auth/permissions", r.URL.Path)
		writeEnvelope(w, http.StatusOK, Permissions{Role: RoleVisitor, Capabilities: []string{"book_conferences"}}, "", "")
	})
	p, err := c.Permissions(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, RoleVisitor, p.Role)
	assert.Equal(t, []string{"book_conferences"}, p.Capabilities)
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil, CodeUnauthorized, "invalid credentials")
	})
	_, err := c.SignIn(context.Background(), "ada@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, CodeUnauthorized, apiErr.Code)
	assert.Equal(t, "invalid credentials", apiErr.Message)
}

func TestClient_NonJSONError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})
	_, err := c.GetSession(context.Background(), "tok")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, CodeInternalError, apiErr.Code)
}

func TestClient_SignOutNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, c.SignOut(context.Background(), "tok"))
}

func TestClient_Register(t *testing.T) {
	existing := &Conference{ID: "c-old", Title: "Go at scale"}
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		wantReg      bool
		wantConflict bool
		wantCode     string
	}{
		{
			name: "created",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var body map[string]string
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "c-new", body["conference_id"])
				writeEnvelope(w, http.StatusCreated, Registration{ID: "r1", ConferenceID: "c-new"}, "", "")
			},
			wantReg: true,
		},
		{
			name: "time conflict",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusConflict, RegistrationConflict{
					ExistingConference: existing,
					NewConference:      &Conference{ID: "c-new"},
					TimeSlot:           &TimeSlot{ID: 3, Day: 1},
				}, CodeTimeConflict, "already registered for Go at scale in this time slot")
			},
			wantConflict: true,
			wantCode:     CodeTimeConflict,
		},
		{
			name: "already registered",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusConflict, nil, CodeAlreadyRegistered, "already registered")
			},
			wantCode: CodeAlreadyRegistered,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			reg, conflict, err := c.Register(context.Background(), "tok", "c-new")
			assert.Equal(t, tt.wantReg, reg != nil)
			assert.Equal(t, tt.wantConflict, conflict != nil)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, ErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
			if conflict != nil {
				assert.Equal(t, "c-old", conflict.ExistingConference.ID)
				assert.Equal(t, 1, conflict.TimeSlot.Day)
			}
		})
	}
}

func TestClient_Replace(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		outcome    *ReplaceOutcome
		code       string
		wantStatus ReplaceStatus
		wantErr    bool
	}{
		{
			name:       "success",
			status:     http.StatusOK,
			outcome:    &ReplaceOutcome{Status: ReplaceSuccess, Path: "atomic", Registration: &Registration{ID: "r2"}},
			wantStatus: ReplaceSuccess,
		},
		{
			name:       "rolled back",
			status:     http.StatusConflict,
			outcome:    &ReplaceOutcome{Status: ReplaceRolledBack, Path: "degraded", Detail: "new conference is full"},
			code:       CodeConflict,
			wantStatus: ReplaceRolledBack,
			wantErr:    true,
		},
		{
			name:       "partial failure",
			status:     http.StatusInternalServerError,
			outcome:    &ReplaceOutcome{Status: ReplacePartialFailure, Path: "degraded"},
			code:       CodePartialFailure,
			wantStatus: ReplacePartialFailure,
			wantErr:    true,
		},
		{
			name:    "no outcome",
			status:  http.StatusBadRequest,
			code:    CodeBadRequest,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/registrations/replace", r.URL.Path)
				writeEnvelope(w, tt.status, tt.outcome, tt.code, "replace failed")
			})
			outcome, err := c.Replace(context.Background(), "tok", "c-old", "c-new")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.code, ErrorCode(err))
			} else {
				require.NoError(t, err)
			}
			if tt.wantStatus == "" {
				assert.Nil(t, outcome)
				return
			}
			require.NotNil(t, outcome)
			assert.Equal(t, tt.wantStatus, outcome.Status)
		})
	}
}

func TestClient_CheckConflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "c1", r.URL.Query().Get("conference_id"))
		writeEnvelope(w, http.StatusOK, map[string]any{"conflict": nil}, "", "")
	})
	conflict, err := c.CheckConflict(context.Background(), "tok", "c1")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestClient_Schedule(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, []ScheduleDay{
			{Day: 1, Conferences: []*Conference{{ID: "a"}}},
			{Day: 2, Conferences: []*Conference{}},
			{Day: 3, Conferences: []*Conference{}},
		}, "", "")
	})
	days, err := c.Schedule(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, "a", days[0].Conferences[0].ID)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(errors.New("plain")))
	assert.Equal(t, CodeNotFound, ErrorCode(&APIError{Code: CodeNotFound}))
}

package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradefair/internal/domain"
)

func TestWriteJSONErrorWithData(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSONErrorWithData(rr, http.StatusConflict, ErrCodeTimeConflict, "overlap", map[string]string{"id": "c1"})

	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var envelope APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, ErrCodeTimeConflict, envelope.Error.Code)
	assert.Equal(t, map[string]any{"id": "c1"}, envelope.Data)
}

type nameRequest struct {
	Name string `json:"name"`
}

func (n nameRequest) Validate() []string {
	if n.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantSubstr string
	}{
		{"valid", `{"name":"Main hall"}`, true, ""},
		{"unknown field", `{"name":"x","extra":1}`, false, "unknown field"},
		{"malformed", `{"name":`, false, ""},
		{"fails validation", `{}`, false, "name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "http://test/rooms", strings.NewReader(tt.body))
			var dest nameRequest
			ok := DecodeAndValidate(rr, req, &dest)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				return
			}
			require.Equal(t, http.StatusBadRequest, rr.Code)
			var envelope APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			assert.Contains(t, envelope.Error.Message, tt.wantSubstr)
		})
	}
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://test/profiles?page=3&page_size=500", nil)
	p := ParsePagination(req)
	assert.Equal(t, domain.PaginationParams{Page: 3, PageSize: MaxPageSize}, p)

	req = httptest.NewRequest(http.MethodGet, "http://test/profiles?page=zero", nil)
	assert.Equal(t, domain.PaginationParams{Page: DefaultPage, PageSize: DefaultPageSize}, ParsePagination(req))

	meta := NewPaginationMeta(domain.PaginationParams{Page: 1, PageSize: 20}, 41)
	assert.Equal(t, 3, meta.TotalPages)
}

func TestPathParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://test/x", nil)
	req.SetPathValue("id", "6f1c1b7e-4a8e-4c1e-9f55-0d8a3b1f2c11")
	req.SetPathValue("roomID", "12")
	req.SetPathValue("bad", "abc")

	id, ok := PathUUID(req, "id")
	assert.True(t, ok)
	assert.Equal(t, "6f1c1b7e-4a8e-4c1e-9f55-0d8a3b1f2c11", id)
	_, ok = PathUUID(req, "bad")
	assert.False(t, ok)

	n, ok := PathInt64(req, "roomID")
	assert.True(t, ok)
	assert.Equal(t, int64(12), n)
	_, ok = PathInt64(req, "bad")
	assert.False(t, ok)
}

package helpers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// PathUUID returns the named path value when it parses as a UUID.
func PathUUID(r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if _, err := uuid.Parse(v); err != nil {
		return "", false
	}
	return v, true
}

// PathInt64 returns the named path value as a positive integer.
func PathInt64(r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// QueryInt returns the named query value as an int, or def when it is absent.
// ok is false when the value is present but not an integer.
func QueryInt(r *http.Request, name string, def int) (n int, ok bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

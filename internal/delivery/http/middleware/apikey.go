package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	h "tradefair/internal/delivery/http/helpers"
)

// APIKeyHeader is the header every gateway request carries.
const APIKeyHeader = "apikey"

// APIKey rejects requests whose apikey header does not match key with 401.
// Preflight requests and paths under exemptPrefixes pass through.
func APIKey(key string, exemptPrefixes []string, next http.Handler) http.Handler {
	want := []byte(key)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		for _, p := range exemptPrefixes {
			if strings.HasPrefix(r.URL.Path, p) {
				next.ServeHTTP(w, r)
				return
			}
		}
		got := []byte(r.Header.Get(APIKeyHeader))
		if len(got) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

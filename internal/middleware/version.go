package middleware

import (
	"encoding/json"
	"net/http"
	"regexp"
)

// VersionHeader carries the API version a client was written against.
const VersionHeader = "Accept-Version"

// APIVersion rejects requests whose Accept-Version header does not match
// pattern.  Requests without the header pass through.
func APIVersion(pattern *regexp.Regexp) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := r.Header.Get(VersionHeader)
			if v == "" || pattern.MatchString(v) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":   "unsupported api version",
				"version": v,
			})
		})
	}
}

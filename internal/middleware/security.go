// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects these headers on every response:
//
//   • Strict-Transport-Security  –  only when the HSTS policy is enabled
//   • Content-Security-Policy   –  self-only policy suited to a JSON API
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//   • Permissions-Policy        –  disables powerful features by default
//
// Notes
// -----
// • Headers are set before next.ServeHTTP runs, and only when the handler
//   has not already set them, so handlers keep the final word.
// • The HSTS value is built once from the resolved policy, not per request.

package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/yanizio/codegov-api/internal/config"
)

const (
	csp   = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
	xfo   = "DENY"
	nosn  = "nosniff"
	refer = "strict-origin-when-cross-origin"
	perm  = "geolocation=(), microphone=(), camera=()"
)

// HSTSValue renders policy as a Strict-Transport-Security header value, or
// "" when the policy is disabled.
func HSTSValue(policy config.HSTS) string {
	if !policy.Enabled {
		return ""
	}
	parts := []string{"max-age=" + strconv.Itoa(policy.MaxAge)}
	if policy.IncludeSubDomains {
		parts = append(parts, "includeSubDomains")
	}
	if policy.Preload {
		parts = append(parts, "preload")
	}
	return strings.Join(parts, "; ")
}

// Security sets security headers for every response.
func Security(policy config.HSTS) func(http.Handler) http.Handler {
	hsts := HSTSValue(policy)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			setDefault := func(k, v string) {
				if v != "" && h.Get(k) == "" {
					h.Set(k, v)
				}
			}

			setDefault("Strict-Transport-Security", hsts)
			setDefault("Content-Security-Policy", csp)
			setDefault("X-Frame-Options", xfo)
			setDefault("X-Content-Type-Options", nosn)
			setDefault("Referrer-Policy", refer)
			setDefault("Permissions-Policy", perm)

			next.ServeHTTP(w, r)
		})
	}
}

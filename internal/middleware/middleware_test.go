package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yanizio/codegov-api/internal/config"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestHSTSValue(t *testing.T) {
	assert.Empty(t, HSTSValue(config.HSTS{MaxAge: 100}))
	assert.Equal(t, "max-age=100", HSTSValue(config.HSTS{Enabled: true, MaxAge: 100}))
	assert.Equal(t, "max-age=31536000; includeSubDomains; preload", HSTSValue(config.HSTS{
		Enabled: true, MaxAge: 31536000, IncludeSubDomains: true, Preload: true,
	}))
	assert.Equal(t, "max-age=0; preload", HSTSValue(config.HSTS{Enabled: true, Preload: true}))
}

func TestSecurity_HSTSOnlyWhenEnabled(t *testing.T) {
	rr := httptest.NewRecorder()
	Security(config.HSTS{MaxAge: 60})(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))

	rr = httptest.NewRecorder()
	Security(config.HSTS{Enabled: true, MaxAge: 60})(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "max-age=60", rr.Header().Get("Strict-Transport-Security"))
}

func TestSecurity_HandlerHeaderWins(t *testing.T) {
	custom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.WriteHeader(http.StatusOK)
	})
	rr := httptest.NewRecorder()
	Security(config.HSTS{})(custom).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "default-src 'self'", rr.Header().Get("Content-Security-Policy"))
}

func TestForceHTTPS(t *testing.T) {
	cases := []struct {
		name   string
		host   string
		proto  string
		tls    bool
		on     bool
		status int
	}{
		{"disabled", "api.code.gov", "", false, false, http.StatusOK},
		{"plain http", "api.code.gov", "", false, true, http.StatusPermanentRedirect},
		{"proxy tls", "api.code.gov", "https", false, true, http.StatusOK},
		{"direct tls", "api.code.gov", "", true, true, http.StatusOK},
		{"localhost", "localhost:3000", "", false, true, http.StatusOK},
		{"loopback ip", "127.0.0.1:3000", "", false, true, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/repos?q=x", nil)
			req.Host = tc.host
			if tc.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tc.proto)
			}
			if tc.tls {
				req.TLS = &tls.ConnectionState{}
			}
			rr := httptest.NewRecorder()
			ForceHTTPS(tc.on)(ok).ServeHTTP(rr, req)

			assert.Equal(t, tc.status, rr.Code)
			if tc.status == http.StatusPermanentRedirect {
				assert.Equal(t, "https://api.code.gov/api/repos?q=x", rr.Header().Get("Location"))
			}
		})
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:3000", "http://127.0.0.1:3000", "https://code.gov"})(ok)

	req := httptest.NewRequest(http.MethodGet, "/api/repos", nil)
	req.Header.Set("Origin", "https://code.gov")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "https://code.gov", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/repos", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Wildcard(t *testing.T) {
	h := CORS([]string{"http://localhost:3000", "http://127.0.0.1:3000", "*"})(ok)

	req := httptest.NewRequest(http.MethodGet, "/api/repos", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestAPIVersion(t *testing.T) {
	h := APIVersion(regexp.MustCompile(`^1\.\d+(\.\d+)?$`))(ok)

	for v, want := range map[string]int{
		"":      http.StatusOK,
		"1.2":   http.StatusOK,
		"1.2.3": http.StatusOK,
		"2.0":   http.StatusBadRequest,
		"1":     http.StatusBadRequest,
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/repos", nil)
		if v != "" {
			req.Header.Set(VersionHeader, v)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, want, rr.Code, "version %q", v)
	}
}

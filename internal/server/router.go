// internal/server/router.go
//
// chi router for the API process.
//
/*
Context
--------
Router mounts the few routes that are driven directly by the resolved
configuration record.  Search and repository handlers live elsewhere and
plug into the /api sub-router that Router returns through Mount.

Middleware order (outermost first):

  RequestID → RealIP → Recoverer → request log → ForceHTTPS →
  Security (HSTS) → CORS → APIVersion (/api only)

Routes
------
  GET /healthz            search endpoint probe
  GET /metrics            Prometheus
  GET /api/swagger.json   API documentation descriptor (host stamped)
  GET /api/metadata       agency metadata document
*/
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/codegov-api/internal/config"
	"github.com/yanizio/codegov-api/internal/metadata"
	"github.com/yanizio/codegov-api/internal/middleware"
)

// HealthChecker reports whether a backing service answers.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// Deps are the collaborators Router needs beyond the record.
type Deps struct {
	Metadata metadata.Source
	Search   HealthChecker
	// Mount, when set, registers extra routes on the /api sub-router.
	Mount func(r chi.Router)
}

// Router builds the root handler for cfg.
func Router(cfg *config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		requestLog,
		middleware.ForceHTTPS(cfg.HSTS.Enabled),
		middleware.Security(cfg.HSTS),
		middleware.CORS(cfg.AllowedOrigins),
	)

	r.Get("/healthz", healthz(deps.Search))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.APIVersion(cfg.VersionPattern))
		api.Get("/swagger.json", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, cfg.APIDocs)
		})
		api.Get("/metadata", metadataHandler(deps.Metadata, cfg.MetadataPath))
		if deps.Mount != nil {
			deps.Mount(api)
		}
	})
	return r
}

func healthz(search HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if search == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := search.Check(ctx); err != nil {
			zap.S().Warnw("search probe failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"search": "unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "search": "ok"})
	}
}

func metadataHandler(src metadata.Source, location string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if src == nil {
			writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "metadata source not configured"})
			return
		}
		doc, err := src.Load(r.Context(), location)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "metadata unavailable"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(doc.Body)
	}
}

// requestLog emits one DEBUG span per request.
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.S().Debugw("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"dur", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("response encode failed", "err", err)
	}
}

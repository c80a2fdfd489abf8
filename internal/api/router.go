// Package api serves IIIF manifests and annotation lists over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/umd-lib/iiif/internal/server"
)

// NewRouter builds the HTTP handler for srv.
func NewRouter(srv server.Server) http.Handler {
	srv.Logger = srv.Logger.Named("api")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(srv.Logger))
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/health", HealthHandler(srv))
	r.Route("/manifests", func(r chi.Router) {
		r.Method(http.MethodGet, "/", ManifestsHandler(srv))
		r.Method(http.MethodGet, "/{id}/manifest", ManifestHandler(srv))
		r.Method(http.MethodGet, "/{id}/list/{listID}", AnnotationListHandler(srv))
	})

	return r
}

// requestLogger logs one line per request.
func requestLogger(log hclog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

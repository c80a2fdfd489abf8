package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/umd-lib/iiif/internal/server"
	"github.com/umd-lib/iiif/pkg/presentation"
)

const (
	// ListSearch is the list id of search-hit annotations.
	ListSearch = "search"

	// ListText is the list id of text-overlay annotations.
	ListText = "text"
)

// ManifestsHandler lists manifests. Enumeration is not supported, so the list
// is always empty.
//
//	GET /manifests
func ManifestsHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, srv.Logger, map[string]any{
			"manifests": []presentation.Manifest{},
		})
	})
}

// ManifestHandler returns the normalized manifest of one item.
//
//	GET /manifests/{id}/manifest
func ManifestHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		item, err := srv.Resolver.Resolve(id)
		if err != nil {
			respondError(w, srv.Logger, "error resolving item", err, "id", id)
			return
		}

		m, err := presentation.BuildManifest(r.Context(), item)
		if err != nil {
			respondError(w, srv.Logger, "error building manifest", err, "id", id)
			return
		}

		respondJSON(w, srv.Logger, m)
	})
}

// AnnotationListHandler returns an annotation list for one page. {listID} is
// "search" (which requires the q parameter) or "text".
//
//	GET /manifests/{id}/list/{listID}?q=
func AnnotationListHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		listID := chi.URLParam(r, "listID")
		query := r.URL.Query().Get("q")

		switch listID {
		case ListSearch:
			if query == "" {
				http.Error(w, "Missing q parameter", http.StatusBadRequest)
				return
			}
		case ListText:
		default:
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		item, err := srv.Resolver.Resolve(id)
		if err != nil {
			respondError(w, srv.Logger, "error resolving item", err, "id", id)
			return
		}

		var list *presentation.AnnotationList
		if listID == ListSearch {
			list, err = item.SearchHits(r.Context(), item.ID(), query)
		} else {
			list, err = item.TextOverlays(r.Context(), item.ID())
		}
		if err != nil {
			respondError(w, srv.Logger, "error getting annotations", err,
				"id", id, "list", listID)
			return
		}

		respondJSON(w, srv.Logger, list)
	})
}

// HealthHandler reports liveness and the registered backends.
//
//	GET /health
func HealthHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, srv.Logger, map[string]any{
			"status":   "ok",
			"backends": srv.Resolver.Providers(),
		})
	})
}

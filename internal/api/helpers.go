package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/umd-lib/iiif/pkg/presentation"
)

// errorStatus maps an item error to the HTTP status returned to clients.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, presentation.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, presentation.ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// respondError logs err and writes the matching status with a short message.
func respondError(w http.ResponseWriter, log hclog.Logger, msg string, err error, args ...any) {
	status := errorStatus(err)
	args = append(args, "error", err, "status", status)
	if status == http.StatusBadGateway {
		log.Error(msg, args...)
	} else {
		log.Debug(msg, args...)
	}

	switch status {
	case http.StatusNotFound:
		http.Error(w, "Not found", status)
	case http.StatusBadRequest:
		http.Error(w, "Invalid identifier", status)
	default:
		http.Error(w, "Repository backend error", status)
	}
}

// respondJSON writes v as a JSON response body.
func respondJSON(w http.ResponseWriter, log hclog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding response", "error", err)
	}
}

package handlers

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/logger"
	"cargo-tracking-service/internal/platform/sentinel"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Warn("encode failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

func trackingIDParam(w http.ResponseWriter, r *http.Request) (domain.TrackingID, bool) {
	id, err := domain.ParseTrackingID(chi.URLParam(r, "trackingID"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

// writeServiceError maps service failures onto status codes. Unexpected
// errors are logged and hidden from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownCargo):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrReferenceResolution):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidHandlingEvent):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, sentinel.ErrLockNotAcquired), errors.Is(err, sentinel.ErrConflict):
		writeError(w, r, http.StatusConflict, "cargo is being updated, try again")
	case errors.Is(err, sentinel.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		logger.FromContext(r.Context()).Warn(op+" failed", "err", err)
		writeError(w, r, http.StatusServiceUnavailable, "dependency unavailable")
	default:
		logger.FromContext(r.Context()).Error(op+" failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"dailybaht/internal/core"
	"dailybaht/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps service and domain errors onto status codes:
// validation failures are 422, a missing expense is 404 and a store failure
// is 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrStoreFailure):
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrMissingID),
		errors.Is(err, core.ErrInvalidRate),
		errors.Is(err, core.ErrEmptyCurrencyCode):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// dateParam reads a date from the query string, defaulting to today when
// absent.
func dateParam(r *http.Request) (core.Date, error) {
	v := r.URL.Query().Get("date")
	if v == "" {
		return core.Today(), nil
	}
	return core.ParseDate(v)
}

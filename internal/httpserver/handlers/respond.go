package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"fleettrack/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeServiceError maps the service error taxonomy to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidRange):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCoordinate):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrUnknownVehicle), errors.Is(err, models.ErrNoPosition):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

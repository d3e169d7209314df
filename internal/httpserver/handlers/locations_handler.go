package handlers

import (
	"context"
	"net/http"
	"time"

	"fleettrack/internal/models"
)

// PositionReader exposes the store's query side.
type PositionReader interface {
	Query(ctx context.Context, vehicleID *string, from, to time.Time) ([]models.LocationPing, error)
	CurrentPosition(ctx context.Context, vehicleID string) (*models.LocationPing, error)
	FleetPositions(ctx context.Context) ([]models.LocationPing, error)
}

// LocationsHandler serves raw location listings and current positions.
type LocationsHandler struct {
	reader PositionReader
}

// NewLocationsHandler returns handler.
func NewLocationsHandler(reader PositionReader) *LocationsHandler {
	return &LocationsHandler{reader: reader}
}

// List handles GET /locations?vehicle_id=&from=&to=. Without a vehicle_id it
// returns all vehicles interleaved in arrival order.
func (h *LocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	var vehicleID *string
	if id := r.URL.Query().Get("vehicle_id"); id != "" {
		vehicleID = &id
	}

	from, to, ok := parseWindow(w, r)
	if !ok {
		return
	}

	pings, err := h.reader.Query(r.Context(), vehicleID, from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if pings == nil {
		pings = []models.LocationPing{}
	}
	writeJSON(w, http.StatusOK, pings)
}

// Current handles GET /locations/current?vehicle_id=. Without a vehicle_id it
// returns the latest known position of every vehicle.
func (h *LocationsHandler) Current(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.URL.Query().Get("vehicle_id")
	if vehicleID == "" {
		pings, err := h.reader.FleetPositions(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if pings == nil {
			pings = []models.LocationPing{}
		}
		writeJSON(w, http.StatusOK, pings)
		return
	}

	ping, err := h.reader.CurrentPosition(r.Context(), vehicleID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ping)
}

// parseWindow reads optional RFC3339 from/to query params. from defaults to
// the zero time, to defaults to now.
func parseWindow(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	var from, to time.Time
	to = time.Now().UTC()

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid from: " + raw})
			return from, to, false
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid to: " + raw})
			return from, to, false
		}
		to = parsed
	}
	return from, to, true
}

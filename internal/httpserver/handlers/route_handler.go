package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"fleettrack/internal/models"
)

// RouteReconstructor produces ordered, deduplicated routes.
type RouteReconstructor interface {
	Reconstruct(ctx context.Context, vehicleID string, from, to time.Time) (*models.Route, error)
}

// VehicleGetter checks vehicle existence before reconstruction.
type VehicleGetter interface {
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
}

// RouteHandler serves GET /routes?vehicle_id=&from=&to=.
type RouteHandler struct {
	routes   RouteReconstructor
	registry VehicleGetter
}

// NewRouteHandler returns handler.
func NewRouteHandler(routes RouteReconstructor, registry VehicleGetter) *RouteHandler {
	return &RouteHandler{routes: routes, registry: registry}
}

// Get reconstructs one vehicle's route over the requested window. An empty
// route is a valid 200, not an error.
func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.URL.Query().Get("vehicle_id")
	if vehicleID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "vehicle_id is required"})
		return
	}

	if _, err := h.registry.GetByID(r.Context(), vehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeServiceError(w, models.ErrUnknownVehicle)
		} else {
			writeServiceError(w, models.ErrStoreUnavailable)
		}
		return
	}

	from, to, ok := parseWindow(w, r)
	if !ok {
		return
	}

	route, err := h.routes.Reconstruct(r.Context(), vehicleID, from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

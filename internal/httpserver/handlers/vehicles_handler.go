package handlers

import (
	"context"
	"net/http"

	"fleettrack/internal/models"
)

// VehicleLister exposes the registry read used by selector UIs.
type VehicleLister interface {
	Vehicles(ctx context.Context) ([]models.Vehicle, error)
}

type vehicleResponse struct {
	ID    string `json:"id"`
	Plate string `json:"plate"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Label string `json:"label"`
}

// NewVehiclesHandler handles GET /vehicles.
func NewVehiclesHandler(lister VehicleLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicles, err := lister.Vehicles(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := make([]vehicleResponse, 0, len(vehicles))
		for _, v := range vehicles {
			out = append(out, vehicleResponse{
				ID:    v.ID,
				Plate: v.Plate,
				Make:  v.Make,
				Model: v.Model,
				Label: v.Label(),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

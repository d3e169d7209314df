package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"fleettrack/internal/models"
	"fleettrack/internal/service"
)

// Appender is the store side of push ingestion.
type Appender interface {
	Append(ctx context.Context, input service.PingInput) (*models.LocationPing, error)
}

// IngestHandler accepts batches of raw location tuples pushed by the
// ingestion transport.
type IngestHandler struct {
	appender Appender
	logger   *zap.Logger
}

// NewIngestHandler returns handler.
func NewIngestHandler(appender Appender, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{appender: appender, logger: logger}
}

type ingestResponse struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// ServeHTTP handles POST /internal/ingest/pings. Tuples rejected for caller
// errors are counted and skipped; a store outage aborts the batch with 503.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var inputs []service.PingInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}
	if len(inputs) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "empty batch"})
		return
	}

	var resp ingestResponse
	for _, input := range inputs {
		_, err := h.appender.Append(r.Context(), input)
		switch {
		case err == nil:
			resp.Accepted++
		case errors.Is(err, models.ErrInvalidCoordinate), errors.Is(err, models.ErrUnknownVehicle):
			h.logger.Warn("rejecting pushed ping",
				zap.String("vehicle_id", input.VehicleID), zap.Error(err))
			resp.Rejected++
		default:
			h.logger.Error("failed to store pushed ping", zap.Error(err))
			writeServiceError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusAccepted, resp)
}

package service

import (
	"context"
	"time"

	"fleettrack/internal/models"
)

// TrackingFetcher binds the selection controller's two query shapes to the
// route and telemetry services.
type TrackingFetcher struct {
	routes    *RouteService
	telemetry *TelemetryService
}

// NewTrackingFetcher returns fetcher.
func NewTrackingFetcher(routes *RouteService, telemetry *TelemetryService) *TrackingFetcher {
	return &TrackingFetcher{routes: routes, telemetry: telemetry}
}

// Route reconstructs a single vehicle's route.
func (f *TrackingFetcher) Route(ctx context.Context, vehicleID string, from, to time.Time) (*models.Route, error) {
	return f.routes.Reconstruct(ctx, vehicleID, from, to)
}

// Fleet returns the all-vehicle live position set.
func (f *TrackingFetcher) Fleet(ctx context.Context) ([]models.LocationPing, error) {
	return f.telemetry.FleetPositions(ctx)
}

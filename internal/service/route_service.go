package service

import (
	"context"
	"sort"
	"time"

	"fleettrack/internal/models"
)

// PingSource is the query side of the ping store as seen by reconstruction.
type PingSource interface {
	Query(ctx context.Context, vehicleID *string, from, to time.Time) ([]models.LocationPing, error)
}

// RouteService turns raw ping sequences into renderable routes. It is a pure
// function of store contents: no retries, no caching, store errors pass
// through unchanged.
type RouteService struct {
	source PingSource
}

// NewRouteService returns service instance.
func NewRouteService(source PingSource) *RouteService {
	return &RouteService{source: source}
}

// Reconstruct fetches the vehicle's pings inside [from, to], orders them by
// recorded timestamp (arrival order breaks ties, so retransmissions sort
// deterministically) and collapses consecutive identical positions. An empty
// route is valid and not an error.
func (s *RouteService) Reconstruct(ctx context.Context, vehicleID string, from, to time.Time) (*models.Route, error) {
	pings, err := s.source.Query(ctx, &vehicleID, from, to)
	if err != nil {
		return nil, err
	}

	sort.Slice(pings, func(i, j int) bool {
		if !pings[i].Timestamp.Equal(pings[j].Timestamp) {
			return pings[i].Timestamp.Before(pings[j].Timestamp)
		}
		if !pings[i].ReceivedAt.Equal(pings[j].ReceivedAt) {
			return pings[i].ReceivedAt.Before(pings[j].ReceivedAt)
		}
		return pings[i].ID < pings[j].ID
	})

	points := make([]models.LocationPing, 0, len(pings))
	for _, p := range pings {
		if len(points) > 0 && points[len(points)-1].SamePosition(p) {
			continue
		}
		points = append(points, p)
	}

	return &models.Route{
		VehicleID: vehicleID,
		From:      from,
		To:        to,
		Points:    points,
	}, nil
}

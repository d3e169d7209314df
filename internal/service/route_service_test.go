package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleettrack/internal/models"
)

type stubSource struct {
	pings []models.LocationPing
	err   error
}

func (s *stubSource) Query(_ context.Context, _ *string, _, _ time.Time) ([]models.LocationPing, error) {
	return s.pings, s.err
}

func at(minute int) time.Time {
	return time.Date(2026, 3, 1, 10, minute, 0, 0, time.UTC)
}

func TestReconstructOrdersByTimestamp(t *testing.T) {
	source := &stubSource{pings: []models.LocationPing{
		{ID: 1, VehicleID: "v1", Timestamp: at(30), Latitude: 3, Longitude: 3, ReceivedAt: at(31)},
		{ID: 2, VehicleID: "v1", Timestamp: at(10), Latitude: 1, Longitude: 1, ReceivedAt: at(32)},
		{ID: 3, VehicleID: "v1", Timestamp: at(20), Latitude: 2, Longitude: 2, ReceivedAt: at(33)},
	}}
	svc := NewRouteService(source)

	route, err := svc.Reconstruct(context.Background(), "v1", at(0), at(59))
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if len(route.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(route.Points))
	}
	for i, want := range []time.Time{at(10), at(20), at(30)} {
		if !route.Points[i].Timestamp.Equal(want) {
			t.Fatalf("point %d: expected %s, got %s", i, want, route.Points[i].Timestamp)
		}
	}
}

func TestReconstructBreaksTimestampTiesByArrival(t *testing.T) {
	// Same recorded timestamp, different positions: the earlier-received
	// copy must sort first so retransmission order is deterministic.
	source := &stubSource{pings: []models.LocationPing{
		{ID: 2, VehicleID: "v1", Timestamp: at(10), Latitude: 2, Longitude: 2, ReceivedAt: at(12)},
		{ID: 1, VehicleID: "v1", Timestamp: at(10), Latitude: 1, Longitude: 1, ReceivedAt: at(11)},
	}}
	svc := NewRouteService(source)

	route, err := svc.Reconstruct(context.Background(), "v1", at(0), at(59))
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if len(route.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(route.Points))
	}
	if route.Points[0].Latitude != 1 || route.Points[1].Latitude != 2 {
		t.Fatalf("expected arrival-order tie break, got %+v", route.Points)
	}
}

func TestReconstructCollapsesDuplicateRetransmissions(t *testing.T) {
	source := &stubSource{pings: []models.LocationPing{
		{ID: 1, VehicleID: "v1", Timestamp: at(10), Latitude: 10, Longitude: 20, ReceivedAt: at(10)},
		{ID: 2, VehicleID: "v1", Timestamp: at(20), Latitude: 12, Longitude: 22, ReceivedAt: at(20)},
		// retransmission of the first ping, arriving much later
		{ID: 3, VehicleID: "v1", Timestamp: at(10), Latitude: 10, Longitude: 20, ReceivedAt: at(40)},
	}}
	svc := NewRouteService(source)

	route, err := svc.Reconstruct(context.Background(), "v1", at(0), at(59))
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if len(route.Points) != 2 {
		t.Fatalf("expected duplicate collapsed to 2 points, got %d", len(route.Points))
	}
	if !route.Points[0].Timestamp.Equal(at(10)) || !route.Points[1].Timestamp.Equal(at(20)) {
		t.Fatalf("unexpected order: %+v", route.Points)
	}
	if route.Points[0].ID != 1 {
		t.Fatalf("expected first occurrence kept, got id %d", route.Points[0].ID)
	}
}

func TestReconstructKeepsEqualTimestampDifferentPosition(t *testing.T) {
	// Identical timestamps but different coordinates are two distinct
	// observations, not duplicates.
	source := &stubSource{pings: []models.LocationPing{
		{ID: 1, VehicleID: "v1", Timestamp: at(10), Latitude: 1, Longitude: 1, ReceivedAt: at(11)},
		{ID: 2, VehicleID: "v1", Timestamp: at(10), Latitude: 2, Longitude: 2, ReceivedAt: at(12)},
	}}
	svc := NewRouteService(source)

	route, err := svc.Reconstruct(context.Background(), "v1", at(0), at(59))
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if len(route.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(route.Points))
	}
}

func TestReconstructPropagatesStoreErrors(t *testing.T) {
	wrapped := errors.New("window rejected")
	source := &stubSource{err: wrapped}
	svc := NewRouteService(source)

	_, err := svc.Reconstruct(context.Background(), "v1", at(0), at(59))
	if !errors.Is(err, wrapped) {
		t.Fatalf("expected store error passed through, got %v", err)
	}
}

func TestReconstructEmptyWindow(t *testing.T) {
	svc := NewRouteService(&stubSource{})

	route, err := svc.Reconstruct(context.Background(), "v2", at(0), at(59))
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if len(route.Points) != 0 {
		t.Fatalf("expected empty route, got %d points", len(route.Points))
	}
	if route.VehicleID != "v2" {
		t.Fatalf("expected vehicle id carried, got %q", route.VehicleID)
	}
}

// End-to-end over the real store semantics: append through the telemetry
// service, reconstruct through the route service.
func TestReconstructEndToEnd(t *testing.T) {
	repo := newMemoryPingRepo()
	telemetry := newTestTelemetry(repo, newMemoryRegistry("V1"), nil)
	routes := NewRouteService(telemetry)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	appendAt := func(minute int, lat, lon float64) {
		t.Helper()
		if _, err := telemetry.Append(context.Background(), PingInput{
			VehicleID: "V1",
			Timestamp: base.Add(time.Duration(minute) * time.Minute),
			Latitude:  lat,
			Longitude: lon,
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	appendAt(1, 10, 20)
	appendAt(3, 12, 22)
	appendAt(1, 10, 20) // duplicate retransmission, arrives last
	appendAt(10, 14, 24) // outside the queried window

	route, err := routes.Reconstruct(context.Background(), "V1", base, base.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if len(route.Points) != 2 {
		t.Fatalf("expected idempotent append to yield 2 points, got %d", len(route.Points))
	}
	if route.Points[0].Latitude != 10 || route.Points[1].Latitude != 12 {
		t.Fatalf("unexpected route: %+v", route.Points)
	}

	// a window past the last ping is empty, not an error
	empty, err := routes.Reconstruct(context.Background(), "V1",
		base.Add(100*time.Minute), base.Add(200*time.Minute))
	if err != nil {
		t.Fatalf("reconstruct empty window: %v", err)
	}
	if len(empty.Points) != 0 {
		t.Fatalf("expected empty route, got %d points", len(empty.Points))
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleettrack/internal/models"
)

type stubPositions struct {
	queried   *string
	queryFrom time.Time
	queryTo   time.Time
	pings     []models.LocationPing
	current   *models.LocationPing
	fleet     []models.LocationPing
	err       error
}

func (s *stubPositions) Query(_ context.Context, vehicleID *string, from, to time.Time) ([]models.LocationPing, error) {
	s.queried = vehicleID
	s.queryFrom = from
	s.queryTo = to
	return s.pings, s.err
}

func (s *stubPositions) CurrentPosition(_ context.Context, vehicleID string) (*models.LocationPing, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.current, nil
}

func (s *stubPositions) FleetPositions(_ context.Context) ([]models.LocationPing, error) {
	return s.fleet, s.err
}

func TestLocationsListScopesToVehicle(t *testing.T) {
	stub := &stubPositions{pings: []models.LocationPing{{VehicleID: "v1"}}}
	handler := NewLocationsHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/locations?vehicle_id=v1&from=2026-03-01T09:00:00Z&to=2026-03-01T10:00:00Z", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.queried == nil || *stub.queried != "v1" {
		t.Fatalf("expected query scoped to v1, got %v", stub.queried)
	}
	if !stub.queryFrom.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected from: %s", stub.queryFrom)
	}
}

func TestLocationsListAllVehicles(t *testing.T) {
	stub := &stubPositions{}
	handler := NewLocationsHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/locations", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.queried != nil {
		t.Fatalf("expected unscoped query, got %v", *stub.queried)
	}
	// empty store serializes as [], not null
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestLocationsCurrentSingleVehicle(t *testing.T) {
	stub := &stubPositions{current: &models.LocationPing{VehicleID: "v1", Latitude: 10}}
	handler := NewLocationsHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/locations/current?vehicle_id=v1", nil)
	rec := httptest.NewRecorder()
	handler.Current(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var ping models.LocationPing
	if err := json.Unmarshal(rec.Body.Bytes(), &ping); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ping.VehicleID != "v1" || ping.Latitude != 10 {
		t.Fatalf("unexpected ping: %+v", ping)
	}
}

func TestLocationsCurrentMissingIs404(t *testing.T) {
	stub := &stubPositions{err: models.ErrNoPosition}
	handler := NewLocationsHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/locations/current?vehicle_id=v9", nil)
	rec := httptest.NewRecorder()
	handler.Current(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLocationsCurrentFleetView(t *testing.T) {
	stub := &stubPositions{fleet: []models.LocationPing{{VehicleID: "v1"}, {VehicleID: "v2"}}}
	handler := NewLocationsHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/locations/current", nil)
	rec := httptest.NewRecorder()
	handler.Current(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var pings []models.LocationPing
	if err := json.Unmarshal(rec.Body.Bytes(), &pings); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pings) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(pings))
	}
}

func TestLocationsListInvalidRange(t *testing.T) {
	stub := &stubPositions{err: models.ErrInvalidRange}
	handler := NewLocationsHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/locations?from=2026-03-01T10:00:00Z&to=2026-03-01T09:00:00Z", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

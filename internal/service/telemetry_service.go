package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fleettrack/internal/models"
)

// PingRepository is the durable ping store.
type PingRepository interface {
	Insert(ctx context.Context, ping *models.LocationPing) error
	List(ctx context.Context, vehicleID *string, from, to time.Time) ([]models.LocationPing, error)
	Latest(ctx context.Context, vehicleID string) (*models.LocationPing, error)
	LatestPerVehicle(ctx context.Context) ([]models.LocationPing, error)
}

// VehicleRegistry looks up registered vehicles.
type VehicleRegistry interface {
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
	List(ctx context.Context) ([]models.Vehicle, error)
}

// LatestCache caches the current position per vehicle. Optional; cache
// failures never fail an append.
type LatestCache interface {
	SaveLatest(ctx context.Context, ping models.LocationPing) error
	GetLatest(ctx context.Context, vehicleID string) (*models.LocationPing, error)
}

// PingInput is one raw location tuple from the ingestion transport.
type PingInput struct {
	VehicleID string    `json:"vehicle_id"`
	Timestamp time.Time `json:"timestamp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// TelemetryService validates and persists pings and serves position queries.
type TelemetryService struct {
	repo     PingRepository
	registry VehicleRegistry
	cache    LatestCache
	logger   *zap.Logger
	now      func() time.Time
}

// NewTelemetryService returns service instance.
func NewTelemetryService(repo PingRepository, registry VehicleRegistry, cache LatestCache, logger *zap.Logger) *TelemetryService {
	return &TelemetryService{
		repo:     repo,
		registry: registry,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// Append validates the tuple, stamps ReceivedAt server-side and stores the
// ping. Once Append returns, queries whose window covers the stamped instant
// see the ping. Duplicate retransmissions are stored as-is.
func (s *TelemetryService) Append(ctx context.Context, input PingInput) (*models.LocationPing, error) {
	if input.Latitude < -90 || input.Latitude > 90 {
		return nil, fmt.Errorf("%w: latitude %v", models.ErrInvalidCoordinate, input.Latitude)
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return nil, fmt.Errorf("%w: longitude %v", models.ErrInvalidCoordinate, input.Longitude)
	}

	if _, err := s.registry.GetByID(ctx, input.VehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", models.ErrUnknownVehicle, input.VehicleID)
		}
		return nil, fmt.Errorf("%w: registry lookup: %v", models.ErrStoreUnavailable, err)
	}

	timestamp := input.Timestamp
	if timestamp.IsZero() {
		timestamp = s.now().UTC()
	}

	ping := &models.LocationPing{
		VehicleID:  input.VehicleID,
		Timestamp:  timestamp.UTC(),
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		ReceivedAt: s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, ping); err != nil {
		return nil, fmt.Errorf("%w: insert: %v", models.ErrStoreUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.SaveLatest(ctx, *ping); err != nil {
			s.logger.Warn("failed to cache latest position",
				zap.String("vehicle_id", ping.VehicleID), zap.Error(err))
		}
	}
	return ping, nil
}

// Query returns pings inside [from, to] in arrival order. A nil vehicleID
// returns all vehicles interleaved; an empty result is a valid empty slice.
func (s *TelemetryService) Query(ctx context.Context, vehicleID *string, from, to time.Time) ([]models.LocationPing, error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s > %s", models.ErrInvalidRange,
			from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	pings, err := s.repo.List(ctx, vehicleID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", models.ErrStoreUnavailable, err)
	}
	return pings, nil
}

// CurrentPosition returns the vehicle's most recent ping, cache-first.
func (s *TelemetryService) CurrentPosition(ctx context.Context, vehicleID string) (*models.LocationPing, error) {
	if s.cache != nil {
		if ping, err := s.cache.GetLatest(ctx, vehicleID); err == nil {
			return ping, nil
		}
	}
	ping, err := s.repo.Latest(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", models.ErrNoPosition, vehicleID)
		}
		return nil, fmt.Errorf("%w: latest: %v", models.ErrStoreUnavailable, err)
	}
	return ping, nil
}

// FleetPositions returns the latest ping of every vehicle that has reported.
func (s *TelemetryService) FleetPositions(ctx context.Context) ([]models.LocationPing, error) {
	pings, err := s.repo.LatestPerVehicle(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: latest per vehicle: %v", models.ErrStoreUnavailable, err)
	}
	return pings, nil
}

// Vehicles returns the registry contents for selector UIs.
func (s *TelemetryService) Vehicles(ctx context.Context) ([]models.Vehicle, error) {
	vehicles, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: vehicles: %v", models.ErrStoreUnavailable, err)
	}
	return vehicles, nil
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"fleettrack/internal/models"
)

// PingRepository persists location pings. The table is append-only; rows are
// never updated or deleted here.
type PingRepository struct {
	db *sql.DB
}

// NewPingRepository returns repository.
func NewPingRepository(db *sql.DB) *PingRepository {
	return &PingRepository{db: db}
}

// Insert stores a new ping and fills in the generated id.
func (r *PingRepository) Insert(ctx context.Context, ping *models.LocationPing) error {
	const query = `
		INSERT INTO location_pings (vehicle_id, recorded_at, latitude, longitude, received_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		ping.VehicleID,
		ping.Timestamp,
		ping.Latitude,
		ping.Longitude,
		ping.ReceivedAt,
	).Scan(&ping.ID)
}

// List returns pings whose recorded timestamp falls inside [from, to], in
// arrival order. A nil vehicleID returns pings for all vehicles interleaved.
func (r *PingRepository) List(ctx context.Context, vehicleID *string, from, to time.Time) ([]models.LocationPing, error) {
	const query = `
		SELECT id, vehicle_id, recorded_at, latitude, longitude, received_at
		FROM location_pings
		WHERE ($1::text IS NULL OR vehicle_id = $1)
		  AND recorded_at >= $2
		  AND recorded_at <= $3
		ORDER BY received_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, vehicleID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pings []models.LocationPing
	for rows.Next() {
		var p models.LocationPing
		if err := rows.Scan(&p.ID, &p.VehicleID, &p.Timestamp, &p.Latitude, &p.Longitude, &p.ReceivedAt); err != nil {
			return nil, err
		}
		pings = append(pings, p)
	}
	return pings, rows.Err()
}

// Latest returns the most recently received ping for a vehicle.
// Returns sql.ErrNoRows when the vehicle has no pings.
func (r *PingRepository) Latest(ctx context.Context, vehicleID string) (*models.LocationPing, error) {
	const query = `
		SELECT id, vehicle_id, recorded_at, latitude, longitude, received_at
		FROM location_pings
		WHERE vehicle_id = $1
		ORDER BY received_at DESC, id DESC
		LIMIT 1
	`
	var p models.LocationPing
	err := r.db.QueryRowContext(ctx, query, vehicleID).
		Scan(&p.ID, &p.VehicleID, &p.Timestamp, &p.Latitude, &p.Longitude, &p.ReceivedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// LatestPerVehicle returns the most recently received ping of every vehicle
// that has reported at least once.
func (r *PingRepository) LatestPerVehicle(ctx context.Context) ([]models.LocationPing, error) {
	const query = `
		SELECT DISTINCT ON (vehicle_id)
		       id, vehicle_id, recorded_at, latitude, longitude, received_at
		FROM location_pings
		ORDER BY vehicle_id, received_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pings []models.LocationPing
	for rows.Next() {
		var p models.LocationPing
		if err := rows.Scan(&p.ID, &p.VehicleID, &p.Timestamp, &p.Latitude, &p.Longitude, &p.ReceivedAt); err != nil {
			return nil, err
		}
		pings = append(pings, p)
	}
	return pings, rows.Err()
}

package repository

import (
	"context"
	"database/sql"

	"fleettrack/internal/models"
)

// VehicleRepository reads the fleet registry. Vehicles are created and
// updated by the back-office screens; this service only looks them up.
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository returns repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// GetByID returns one vehicle. Returns sql.ErrNoRows when absent.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	const query = `
		SELECT id, plate, make, model, created_at
		FROM vehicles
		WHERE id = $1
	`
	var v models.Vehicle
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&v.ID, &v.Plate, &v.Make, &v.Model, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns all registered vehicles ordered by plate.
func (r *VehicleRepository) List(ctx context.Context) ([]models.Vehicle, error) {
	const query = `
		SELECT id, plate, make, model, created_at
		FROM vehicles
		ORDER BY plate
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.Plate, &v.Make, &v.Model, &v.CreatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

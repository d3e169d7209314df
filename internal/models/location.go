package models

import "time"

// LocationPing is a single reported vehicle position. Pings are append-only:
// once stored they are never mutated or deleted by this service. Duplicate
// retransmissions of the same (vehicle, timestamp) tuple are accepted at the
// store and collapsed during route reconstruction.
type LocationPing struct {
	ID         int64     `db:"id" json:"id"`
	VehicleID  string    `db:"vehicle_id" json:"vehicle_id"`
	Timestamp  time.Time `db:"recorded_at" json:"timestamp"`
	Latitude   float64   `db:"latitude" json:"latitude"`
	Longitude  float64   `db:"longitude" json:"longitude"`
	ReceivedAt time.Time `db:"received_at" json:"received_at"`
}

// SamePosition reports whether two pings carry an identical
// (timestamp, latitude, longitude) triple. Retransmissions are exact copies,
// so coordinates are compared without tolerance.
func (p LocationPing) SamePosition(other LocationPing) bool {
	return p.Timestamp.Equal(other.Timestamp) &&
		p.Latitude == other.Latitude &&
		p.Longitude == other.Longitude
}

// Route is an ordered, deduplicated sequence of pings for one vehicle over a
// time window. Routes are derived on every query and never stored.
type Route struct {
	VehicleID string         `json:"vehicle_id"`
	From      time.Time      `json:"from"`
	To        time.Time      `json:"to"`
	Points    []LocationPing `json:"points"`
}

package models

import (
	"fmt"
	"time"
)

// Vehicle is a fleet vehicle as registered by the fleet back office.
// Rows are owned by the registry; this service only reads them.
type Vehicle struct {
	ID        string    `db:"id" json:"id"`
	Plate     string    `db:"plate" json:"plate"`
	Make      string    `db:"make" json:"make"`
	Model     string    `db:"model" json:"model"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Label returns the display label used by vehicle selectors.
func (v Vehicle) Label() string {
	return fmt.Sprintf("%s - %s %s", v.Plate, v.Make, v.Model)
}

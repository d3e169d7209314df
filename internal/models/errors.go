package models

import "errors"

// Caller errors: the request itself is wrong and must be corrected, retrying
// does not help.
var (
	ErrInvalidCoordinate = errors.New("latitude or longitude out of range")
	ErrUnknownVehicle    = errors.New("vehicle not found in registry")
	ErrInvalidRange      = errors.New("time range start is after end")
	ErrNoPosition        = errors.New("no position recorded for vehicle")
)

// ErrStoreUnavailable marks transient infrastructure failures. Callers may
// retry; this service never retries internally.
var ErrStoreUnavailable = errors.New("location store unavailable")

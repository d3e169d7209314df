package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fleettrack/internal/models"
)

// Store caches the most recent ping per vehicle for quick current-position
// lookups. The Postgres store stays the system of record; entries here are
// TTL-bounded and rebuilt on the next append.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns redis-backed store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(vehicleID string) string {
	return fmt.Sprintf("fleet:latest:%s", vehicleID)
}

// SaveLatest caches the ping as the vehicle's current position.
func (s *Store) SaveLatest(ctx context.Context, ping models.LocationPing) error {
	data, err := json.Marshal(ping)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(ping.VehicleID), data, s.ttl).Err()
}

// GetLatest returns the cached current position, redis.Nil when absent.
func (s *Store) GetLatest(ctx context.Context, vehicleID string) (*models.LocationPing, error) {
	result, err := s.client.Get(ctx, s.key(vehicleID)).Result()
	if err != nil {
		return nil, err
	}
	var ping models.LocationPing
	if err := json.Unmarshal([]byte(result), &ping); err != nil {
		return nil, err
	}
	return &ping, nil
}

// Delete evicts a vehicle's cached position.
func (s *Store) Delete(ctx context.Context, vehicleID string) error {
	return s.client.Del(ctx, s.key(vehicleID)).Err()
}

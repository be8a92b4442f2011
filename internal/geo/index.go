// Package geo maintains the proximity index for reports on top of a Redis
// GEO set. The index is advisory: report rows in Postgres stay the source of
// truth, and listing falls back to recency order when the index is absent.
package geo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const indexKey = "reports:geo"

type Index struct {
	client *redis.Client
}

func NewIndex(addr, password string) (*Index, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Index{client: client}, nil
}

// Add registers a report's position, longitude first.
func (i *Index) Add(ctx context.Context, id uuid.UUID, longitude, latitude float64) error {
	return i.client.GeoAdd(ctx, indexKey, &redis.GeoLocation{
		Name:      id.String(),
		Longitude: longitude,
		Latitude:  latitude,
	}).Err()
}

// Remove drops a report from the index.
func (i *Index) Remove(ctx context.Context, id uuid.UUID) error {
	return i.client.ZRem(ctx, indexKey, id.String()).Err()
}

// Near returns report ids within radiusMeters of the point, closest first.
func (i *Index) Near(ctx context.Context, longitude, latitude, radiusMeters float64) ([]uuid.UUID, error) {
	locations, err := i.client.GeoSearch(ctx, indexKey, &redis.GeoSearchQuery{
		Longitude:  longitude,
		Latitude:   latitude,
		Radius:     radiusMeters,
		RadiusUnit: "m",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(locations))
	for _, name := range locations {
		id, err := uuid.Parse(name)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (i *Index) Close() error {
	return i.client.Close()
}

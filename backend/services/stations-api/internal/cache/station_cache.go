package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"evcharging/backend/services/stations-api/internal/models"
)

// DefaultTTL applies when a non-positive TTL is configured.
const DefaultTTL = 5 * time.Minute

// entry is the cached blob. It keeps created_by, which the API shape hides.
type entry struct {
	ID            int64                `json:"id"`
	Name          string               `json:"name"`
	Latitude      float64              `json:"latitude"`
	Longitude     float64              `json:"longitude"`
	Status        models.StationStatus `json:"status"`
	PowerOutput   float64              `json:"power_output"`
	ConnectorType string               `json:"connector_type"`
	CreatedBy     *int64               `json:"created_by,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

func toEntry(st *models.Station) entry {
	return entry{
		ID:            st.ID,
		Name:          st.Name,
		Latitude:      st.Latitude,
		Longitude:     st.Longitude,
		Status:        st.Status,
		PowerOutput:   st.PowerOutput,
		ConnectorType: st.ConnectorType,
		CreatedBy:     st.CreatedBy,
		CreatedAt:     st.CreatedAt,
	}
}

func (e entry) station() *models.Station {
	return &models.Station{
		ID:            e.ID,
		Name:          e.Name,
		Latitude:      e.Latitude,
		Longitude:     e.Longitude,
		Status:        e.Status,
		PowerOutput:   e.PowerOutput,
		ConnectorType: e.ConnectorType,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
	}
}

// Key returns the redis key for station id.
func Key(id int64) string {
	return fmt.Sprintf("stations:id:%d", id)
}

// StationCache keeps single stations in redis as JSON blobs.
// Failures are logged and reported as misses.
type StationCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewStationCache returns redis-backed cache.
func NewStationCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *StationCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &StationCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached station, if any.
func (c *StationCache) Get(ctx context.Context, id int64) (*models.Station, bool) {
	result, err := c.client.Get(ctx, Key(id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("station cache read failed", zap.Int64("station_id", id), zap.Error(err))
		}
		return nil, false
	}

	var e entry
	if err := json.Unmarshal([]byte(result), &e); err != nil {
		c.logger.Warn("station cache entry corrupt", zap.Int64("station_id", id), zap.Error(err))
		c.Delete(ctx, id)
		return nil, false
	}
	return e.station(), true
}

// Set caches station.
func (c *StationCache) Set(ctx context.Context, st *models.Station) {
	if st == nil {
		return
	}
	data, err := json.Marshal(toEntry(st))
	if err != nil {
		c.logger.Warn("station cache encode failed", zap.Int64("station_id", st.ID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, Key(st.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("station cache write failed", zap.Int64("station_id", st.ID), zap.Error(err))
	}
}

// Delete removes cached station.
func (c *StationCache) Delete(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, Key(id)).Err(); err != nil {
		c.logger.Warn("station cache invalidation failed", zap.Int64("station_id", id), zap.Error(err))
	}
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"tiketbus/internal/domain/models"
	"tiketbus/internal/metrics"
	"tiketbus/internal/utils"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const DefaultTTL = 30 * time.Second

const keyPrefix = "tiketbus:seatmap:"

// LoadFunc builds a fresh seat map from the database.
type LoadFunc func(ctx context.Context) (models.SeatMap, error)

// SeatMapCache caches seat maps per schedule in Redis. Without a client it
// only collapses concurrent loads. It is display-only: booking checks
// never read it.
type SeatMapCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	flight singleflight.Group

	// gens counts invalidations per schedule; a load that started before
	// the latest invalidation must not write back.
	mu   sync.Mutex
	gens map[string]uint64
}

func NewSeatMapCache(client redis.UniversalClient, ttl time.Duration) *SeatMapCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SeatMapCache{client: client, ttl: ttl, gens: map[string]uint64{}}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (redis.UniversalClient, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

func key(scheduleID string) string { return keyPrefix + scheduleID }

func (c *SeatMapCache) GetOrLoad(ctx context.Context, scheduleID string, load LoadFunc) (models.SeatMap, error) {
	if c.client != nil {
		raw, err := c.client.Get(ctx, key(scheduleID)).Bytes()
		switch {
		case err == nil:
			var m models.SeatMap
			if jerr := json.Unmarshal(raw, &m); jerr == nil {
				metrics.SeatMapCache("hit")
				return m, nil
			}
		case errors.Is(err, redis.Nil):
		default:
			metrics.SeatMapCache("error")
			utils.LogEvent("", "cache", "seatmap_get", "redis get gagal: "+err.Error())
		}
	}
	metrics.SeatMapCache("miss")

	v, err, _ := c.flight.Do(scheduleID, func() (interface{}, error) {
		gen := c.generation(scheduleID)
		m, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if c.current(scheduleID, gen) {
			c.store(ctx, scheduleID, m)
		}
		return m, nil
	})
	if err != nil {
		return models.SeatMap{}, err
	}
	return v.(models.SeatMap), nil
}

func (c *SeatMapCache) store(ctx context.Context, scheduleID string, m models.SeatMap) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(scheduleID), raw, c.ttl).Err(); err != nil {
		utils.LogEvent("", "cache", "seatmap_set", "redis set gagal: "+err.Error())
	}
}

func (c *SeatMapCache) generation(scheduleID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[scheduleID]
}

func (c *SeatMapCache) current(scheduleID string, gen uint64) bool {
	return c.generation(scheduleID) == gen
}

// Invalidate drops the cached map of a schedule. Errors are logged only.
func (c *SeatMapCache) Invalidate(ctx context.Context, scheduleID string) {
	if c == nil || scheduleID == "" {
		return
	}
	c.mu.Lock()
	if c.gens == nil {
		c.gens = map[string]uint64{}
	}
	c.gens[scheduleID]++
	c.mu.Unlock()
	c.flight.Forget(scheduleID)
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key(scheduleID)).Err(); err != nil {
		utils.LogEvent("", "cache", "seatmap_invalidate", "redis del gagal: "+err.Error())
	}
}

func (c *SeatMapCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

package distance

import (
	"context"
	"fmt"
	"route-time-service/internal/platform/obs"
	"route-time-service/internal/ports"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedResolver memoizes successful lookups of an inner resolver in a
// bounded LRU. Failures are not cached. Safe for concurrent use.
type CachedResolver struct {
	inner   ports.DistanceResolver
	cache   *lru.Cache[stationPair, float64]
	metrics *obs.Metrics
}

func NewCachedResolver(inner ports.DistanceResolver, size int, metrics *obs.Metrics) (*CachedResolver, error) {
	c, err := lru.New[stationPair, float64](size)
	if err != nil {
		return nil, fmt.Errorf("new cached resolver: %w", err)
	}
	return &CachedResolver{inner: inner, cache: c, metrics: metrics}, nil
}

func (c *CachedResolver) Distance(ctx context.Context, from, to string) (float64, error) {
	key := stationPair{from: from, to: to}
	if km, ok := c.cache.Get(key); ok {
		c.count("hit")
		return km, nil
	}

	km, err := c.inner.Distance(ctx, from, to)
	if err != nil {
		c.count("error")
		return 0, err
	}
	c.count("miss")
	c.cache.Add(key, km)
	return km, nil
}

func (c *CachedResolver) count(result string) {
	if c.metrics != nil {
		c.metrics.DistanceCalls.WithLabelValues(result).Inc()
	}
}

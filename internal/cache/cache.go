// Package cache stores small JSON-encoded values with a TTL. The server
// uses Redis when REDIS_URL is set and an in-process map otherwise.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DukeRupert/fraudbase/internal/metrics"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is a byte-value store with expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result. Cache failures are logged and fall through to load; they never
// fail the request.
func GetOrLoad[T any](
	ctx context.Context,
	c Cache,
	logger *slog.Logger,
	key string,
	ttl time.Duration,
	load func(context.Context) (T, error),
) (T, error) {
	var zero T

	data, err := c.Get(ctx, key)
	if err == nil {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return v, nil
		}
		logger.Warn("discarding undecodable cache entry", "key", key)
	} else if !errors.Is(err, ErrMiss) {
		logger.Warn("cache get failed", "key", key, "error", err)
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	v, err := load(ctx)
	if err != nil {
		return zero, err
	}

	data, err = json.Marshal(v)
	if err != nil {
		return v, fmt.Errorf("encode cache value: %w", err)
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache set failed", "key", key, "error", err)
	}
	return v, nil
}

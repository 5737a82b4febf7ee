package grpc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/diavi-ufpa/avalia/internal/metrics"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

const (
	defaultFetchTimeout = 15 * time.Second
	defaultSetTimeout   = 5 * time.Second
	maxTTLJitter        = 30 * time.Second
)

// addTTLJitter spreads expirations by up to ±15s so keys written together
// do not expire together.
func addTTLJitter(ttl time.Duration) time.Duration {
	if ttl <= maxTTLJitter {
		return ttl
	}
	jitter := time.Duration(rand.Int63n(int64(maxTTLJitter))) - maxTTLJitter/2
	return ttl + jitter
}

// cacheType is the metrics label of a key: its second segment, e.g.
// "dashboard" for "grpc:dashboard:2025:...".
func cacheType(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 2 {
		return key
	}
	return parts[1]
}

func storeValue[T any](c Cacher, key string, ttl time.Duration, logger *zap.Logger, value T) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultSetTimeout)
	defer cancel()

	ttl = addTTLJitter(ttl)
	if err := c.Set(ctx, key, value, ttl); err != nil {
		logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return
	}
	logger.Debug("cache updated", zap.String("key", key), zap.Duration("ttl", ttl))
}

// refreshInBackground recomputes a cached value after a hit so the next
// reader gets fresh data. Concurrent refreshes of a key collapse into one.
func refreshInBackground[T any](c Cacher, sf *singleflight.Group, key string, ttl time.Duration, logger *zap.Logger, fn FetchFunc[T]) {
	go func() {
		_, _, _ = sf.Do(key+":refresh", func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), defaultFetchTimeout)
			defer cancel()

			value, err := fn(ctx)
			if err != nil {
				logger.Warn("background refresh failed", zap.String("key", key), zap.Error(err))
				return nil, err
			}
			storeValue(c, key, ttl, logger, value)
			return value, nil
		})
	}()
}

// FindAndCache reads key through the cache. On a hit the cached value is
// returned and refreshed in the background; on a miss or a cache error the
// value is fetched once for all concurrent callers and stored asynchronously.
// A nil cache always fetches.
func FindAndCache[T any](
	ctx context.Context,
	c Cacher,
	sf *singleflight.Group,
	key string,
	ttl time.Duration,
	logger *zap.Logger,
	fn FetchFunc[T],
) (T, error) {
	var zero T
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		return fn(ctx)
	}
	label := cacheType(key)

	var cached T
	err := c.Get(ctx, key, &cached)
	switch {
	case err == nil:
		metrics.CacheHits.WithLabelValues(label).Inc()
		logger.Debug("cache hit", zap.String("key", key))
		refreshInBackground(c, sf, key, ttl, logger, fn)
		return cached, nil
	case errors.Is(err, redis.Nil):
		logger.Debug("cache miss", zap.String("key", key))
	default:
		logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}
	metrics.CacheMisses.WithLabelValues(label).Inc()

	v, err, shared := sf.Do(key, func() (any, error) {
		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		go storeValue(c, key, ttl, logger, value)
		return value, nil
	})
	if err != nil {
		logger.Error("fetch failed", zap.String("key", key), zap.Error(err))
		return zero, err
	}

	value, ok := v.(T)
	if !ok {
		logger.Error("singleflight type mismatch", zap.String("key", key))
		return zero, fmt.Errorf("type mismatch for key %q", key)
	}
	if shared {
		logger.Debug("singleflight shared result", zap.String("key", key))
	}
	return value, nil
}

// file: service/cacheaside.go

package service

import (
	"context"
	"encoding/json"
	"go-account-api/cache"
	"go-account-api/logger"
	"time"
)

// getThroughCache is the shared read accessor: cache first, loader on miss,
// write-back with ttl. A cache *read* failure degrades to the loader — but
// only reads may degrade; treating a delete failure the same way would mask
// a broken invalidation as "no cached value". Loader errors (including
// not-found) propagate without caching, so an absent entity is never pinned
// as a negative entry.
//
// Concurrent misses each invoke the loader independently; the thundering
// herd on a cold key is an accepted trade-off.
func getThroughCache[T any](ctx context.Context, store cache.Store, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var zero T

	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Cache read failed, falling back to storage")
	} else if ok {
		var value T
		if err := json.Unmarshal([]byte(raw), &value); err == nil {
			return value, nil
		}
		logger.Log.WithField("key", key).Warn("Discarding undecodable cache entry")
	}

	value, err := load()
	if err != nil {
		return zero, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Failed to serialize value for cache")
		return value, nil
	}
	if err := store.Set(ctx, key, string(data), ttl); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Failed to populate cache")
	}

	return value, nil
}

// invalidate deletes keys after a durably committed write. A failure here
// leaves correct storage behind a stale cache entry, which the TTL bounds;
// it is logged as a consistency risk and the request still succeeds.
func invalidate(ctx context.Context, store cache.Store, keys ...string) {
	if err := store.Delete(ctx, keys...); err != nil {
		logger.Log.WithError(err).WithField("keys", keys).
			Error("Cache invalidation failed after committed write; stale entries may survive until TTL")
	}
}

// invalidatePrefix sweeps a whole key family, used where the discriminator
// space (page/limit combinations) is unbounded.
func invalidatePrefix(ctx context.Context, store cache.Store, prefix string) {
	if err := store.DeleteAllWithPrefix(ctx, prefix); err != nil {
		logger.Log.WithError(err).WithField("prefix", prefix).
			Error("Cache prefix invalidation failed after committed write; stale entries may survive until TTL")
	}
}

// invalidateSuffix sweeps every key ending in suffix, used to clear all
// per-user single-entity keys on user deletion.
func invalidateSuffix(ctx context.Context, store cache.Store, suffix string) {
	if err := store.DeleteAllWithSuffix(ctx, suffix); err != nil {
		logger.Log.WithError(err).WithField("suffix", suffix).
			Error("Cache suffix invalidation failed after committed write; stale entries may survive until TTL")
	}
}

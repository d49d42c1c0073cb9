// Package cache defines the key/value store fronting relational reads and
// holding session records, with a Redis-backed implementation for
// production and an in-process one for tests.
package cache

import (
	"context"
	"time"
)

// Entry is one element of a bulk write.
type Entry struct {
	Key   string
	Value string
	TTL   time.Duration
}

// Store is the cache contract. A miss is reported through the boolean, not
// a sentinel value, so an empty cached string and an absent key are never
// confused. Connectivity failures propagate to the caller; masking them as
// misses would hide invalidation failures.
type Store interface {
	// Set writes key unconditionally with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns the value and whether it was present. Expired entries
	// count as absent.
	Get(ctx context.Context, key string) (string, bool, error)
	// Delete removes keys; absent keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// DeleteAllWithPrefix removes every key starting with prefix.
	DeleteAllWithPrefix(ctx context.Context, prefix string) error
	// DeleteAllWithSuffix removes every key ending with suffix.
	DeleteAllWithSuffix(ctx context.Context, suffix string) error
	// GetAllWithPrefix returns the values of every live key under prefix.
	GetAllWithPrefix(ctx context.Context, prefix string) ([]string, error)
	// SetMany writes a batch of entries. Atomicity is per key, not across
	// the batch.
	SetMany(ctx context.Context, entries []Entry) error
	// FlushAll removes every key unconditionally.
	FlushAll(ctx context.Context) error
}

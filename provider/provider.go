// Package provider defines the store abstraction used by nscache.
//
// Implementations hold plain UTF-8 strings. They must be transparent: Get must
// return exactly the string previously passed to Set for a key.
//
// Important: every key nscache writes lives under "<namespace>:". DeletePrefix
// must only remove keys that literally start with the given prefix; glob
// metacharacters in the prefix are data, not patterns.
package provider

import (
	"context"
	"time"
)

// Store is a string key-value store with TTLs.
// Must be safe for concurrent use.
type Store interface {
	// Get returns (value, true, nil) on hit; ("", false, nil) on miss.
	// If an IO/remote error happens, return ("", false, err).
	Get(ctx context.Context, key string) (string, bool, error)

	// GetAndExpire refreshes the TTL of key to ttl and reads it as one atomic
	// unit. ttl <= 0 removes the expiry instead.
	GetAndExpire(ctx context.Context, key string, ttl time.Duration) (string, bool, error)

	// Set stores value with the given TTL. ttl <= 0 means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Del removes a key. Missing keys are not an error.
	Del(ctx context.Context, key string) error

	// Exists reports whether key is present. It does not touch the TTL.
	Exists(ctx context.Context, key string) (bool, error)

	// Expire overwrites the TTL of an existing key; ttl <= 0 removes the expiry.
	// Returns false when the key does not exist.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// DeletePrefix removes every key starting with prefix, at most batch keys
	// per delete command, and returns how many keys were removed.
	DeletePrefix(ctx context.Context, prefix string, batch int) (int64, error)

	// Close releases resources.
	Close(ctx context.Context) error
}

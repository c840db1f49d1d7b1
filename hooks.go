package nscache

import "time"

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; wrap slow ones with
// hooks/async.
type Hooks interface {
	// A stored value carried the array marker but could not be decoded.
	DecodeFailed(storageKey string, err error)

	// The store returned an error.
	// op ∈ {"get", "set", "del", "exists", "expire", "purge"}
	StoreFailed(op, storageKey string, err error)

	// RemoveAll finished; namespace is the bound prefix including ":".
	Purged(namespace string, deleted int64, took time.Duration)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) DecodeFailed(string, error)          {}
func (NopHooks) StoreFailed(string, string, error)   {}
func (NopHooks) Purged(string, int64, time.Duration) {}

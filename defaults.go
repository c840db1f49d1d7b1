package nscache

import "time"

const (
	// DefaultLifetime applies when Options.DefaultLifetime is zero.
	DefaultLifetime = 15 * time.Minute

	// MaxPurgeBatch is the most keys RemoveAll hands to a single delete.
	MaxPurgeBatch = 5000
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

func purgeBatch(n int) int {
	if n <= 0 || n > MaxPurgeBatch {
		return MaxPurgeBatch
	}
	return n
}

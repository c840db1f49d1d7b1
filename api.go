package nscache

import (
	"time"

	"github.com/unkn0wn-root/nscache/codec"
	pr "github.com/unkn0wn-root/nscache/provider"
)

// Options configure a Cache. Only Store is required; others have sensible defaults.
type Options struct {
	// Required
	Store pr.Store

	// Namespace is bound right away when set; otherwise call Init before any
	// keyed operation.
	Namespace string

	DefaultLifetime    time.Duration // 0 => 15m; < 0 => entries never expire
	DisableExtendOnGet bool          // default false => every Get refreshes the TTL
	Codec              codec.Codec   // zero => JSON
	PurgeBatch         int           // keys per delete during RemoveAll; 0 => 5000, capped at 5000
	Logger             Logger        // if nil, NopLogger is used
	Hooks              Hooks         // if nil, NopHooks is used
}

// New builds a Cache over opts.Store. The cache does not dial anything; the
// store decides when a connection is established.
func New(opts Options) (*Cache, error) {
	return newCache(opts)
}

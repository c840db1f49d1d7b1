package nscache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/nscache/codec"
	pr "github.com/unkn0wn-root/nscache/provider"
)

// Cache is a namespaced view over a Store. Safe for concurrent use; Init and
// the lifetime setters may be called while other goroutines read and write.
type Cache struct {
	store pr.Store
	codec codec.Codec
	log   Logger
	hooks Hooks
	batch int

	mu     sync.RWMutex
	prefix string // "<namespace>:"; empty until Init

	lifetime atomic.Int64 // time.Duration
	extend   atomic.Bool
}

func newCache(opts Options) (*Cache, error) {
	if opts.Store == nil {
		return nil, ErrStoreRequired
	}

	c := &Cache{
		store: opts.Store,
		codec: opts.Codec,
		batch: purgeBatch(opts.PurgeBatch),
	}

	// defaults
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.lifetime.Store(int64(coalesce[time.Duration](opts.DefaultLifetime, DefaultLifetime)))
	c.extend.Store(!opts.DisableExtendOnGet)

	if opts.Namespace != "" {
		if err := c.Init(opts.Namespace); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Init binds the cache to namespaceID. Calling it again rebinds; entries
// written under the old namespace stay where they are.
func (c *Cache) Init(namespaceID string) error {
	if namespaceID == "" {
		return ErrNamespaceRequired
	}
	c.mu.Lock()
	c.prefix = namespaceID + ":"
	c.mu.Unlock()
	return nil
}

// Namespace returns the bound namespace id, or "" before Init.
func (c *Cache) Namespace() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return strings.TrimSuffix(c.prefix, ":")
}

func (c *Cache) DefaultLifetime() time.Duration { return time.Duration(c.lifetime.Load()) }

// SetDefaultLifetime changes the lifetime used by Set and by extend-on-get.
// d <= 0 means entries written afterwards never expire.
func (c *Cache) SetDefaultLifetime(d time.Duration) { c.lifetime.Store(int64(d)) }

func (c *Cache) ExtendsLifetimeOnGet() bool     { return c.extend.Load() }
func (c *Cache) SetExtendLifetimeOnGet(on bool) { c.extend.Store(on) }

func (c *Cache) Close(ctx context.Context) error {
	return c.store.Close(ctx)
}

// Set stores v under key with the default lifetime. An empty scalar is stored
// the same way as Null, so Scalar("") reads back as Null.
func (c *Cache) Set(ctx context.Context, key string, v Value) error {
	return c.SetWithLifetime(ctx, key, v, c.DefaultLifetime())
}

// SetWithLifetime stores v under key. lifetime <= 0 stores without expiry.
// The last writer wins. As with Set, Scalar("") reads back as Null.
func (c *Cache) SetWithLifetime(ctx context.Context, key string, v Value, lifetime time.Duration) error {
	k, err := c.storageKey(key)
	if err != nil {
		return err
	}
	payload, err := c.encode(v)
	if err != nil {
		return fmt.Errorf("nscache: set %q: %w", key, err)
	}
	if err := c.store.Set(ctx, k, payload, lifetime); err != nil {
		c.storeFailed("set", k, err)
		return err
	}
	return nil
}

// Get returns the value stored under key, or Null when it is missing or
// expired. An entry stored as Scalar("") also reads back as Null. With
// extend-on-get enabled the TTL is reset to the default lifetime in the same
// round trip as the read.
func (c *Cache) Get(ctx context.Context, key string) (Value, error) {
	k, err := c.storageKey(key)
	if err != nil {
		return Null(), err
	}

	var (
		raw string
		ok  bool
	)
	if c.extend.Load() {
		raw, ok, err = c.store.GetAndExpire(ctx, k, c.DefaultLifetime())
	} else {
		raw, ok, err = c.store.Get(ctx, k)
	}
	if err != nil {
		c.storeFailed("get", k, err)
		return Null(), err
	}
	if !ok || raw == "" {
		return Null(), nil
	}
	if !codec.IsEncoded(raw) {
		return Scalar(raw), nil
	}

	t, err := c.codec.Decode(raw)
	if err != nil {
		c.hooks.DecodeFailed(k, err)
		c.log.Warn("stored value not decodable", Fields{"key": k, "err": err})
		return Null(), &DecodeError{Key: key, Err: err}
	}
	return ArrayOf(t), nil
}

// Remove deletes key. Removing a missing key is not an error.
func (c *Cache) Remove(ctx context.Context, key string) error {
	k, err := c.storageKey(key)
	if err != nil {
		return err
	}
	if err := c.store.Del(ctx, k); err != nil {
		c.storeFailed("del", k, err)
		return err
	}
	return nil
}

// Exists reports whether key is present. It never changes the TTL.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	k, err := c.storageKey(key)
	if err != nil {
		return false, err
	}
	ok, err := c.store.Exists(ctx, k)
	if err != nil {
		c.storeFailed("exists", k, err)
		return false, err
	}
	return ok, nil
}

// SetExpiration overwrites the TTL of key. lifetime <= 0 removes the expiry.
// A missing key is left missing.
func (c *Cache) SetExpiration(ctx context.Context, key string, lifetime time.Duration) error {
	k, err := c.storageKey(key)
	if err != nil {
		return err
	}
	ok, err := c.store.Expire(ctx, k, lifetime)
	if err != nil {
		c.storeFailed("expire", k, err)
		return err
	}
	if !ok {
		c.log.Debug("expiration not set (missing key)", Fields{"key": k})
	}
	return nil
}

// RemoveAll deletes every key of the bound namespace and reports how many were
// removed. Keys of other namespaces are never touched, including namespaces
// whose id merely starts with this one.
func (c *Cache) RemoveAll(ctx context.Context) (int64, error) {
	prefix, err := c.boundPrefix()
	if err != nil {
		return 0, err
	}
	start := time.Now()
	n, err := c.store.DeletePrefix(ctx, prefix, c.batch)
	if err != nil {
		c.storeFailed("purge", prefix, err)
		return n, err
	}
	took := time.Since(start)
	c.hooks.Purged(prefix, n, took)
	c.log.Debug("namespace purged", Fields{"namespace": prefix, "deleted": n, "took": took})
	return n, nil
}

// Item returns a handle for key, the indexer form of Get and Set.
func (c *Cache) Item(key string) Item { return Item{c: c, key: key} }

// Item is a single key of a Cache.
type Item struct {
	c   *Cache
	key string
}

func (it Item) Key() string                              { return it.key }
func (it Item) Get(ctx context.Context) (Value, error)   { return it.c.Get(ctx, it.key) }
func (it Item) Set(ctx context.Context, v Value) error   { return it.c.Set(ctx, it.key, v) }
func (it Item) Remove(ctx context.Context) error         { return it.c.Remove(ctx, it.key) }
func (it Item) Exists(ctx context.Context) (bool, error) { return it.c.Exists(ctx, it.key) }

func (c *Cache) encode(v Value) (string, error) {
	switch v.kind {
	case KindNull:
		return "", nil
	case KindScalar:
		if codec.IsEncoded(v.text) {
			return "", ErrReservedToken
		}
		return v.text, nil
	default:
		return c.codec.Encode(v.table)
	}
}

func (c *Cache) boundPrefix() (string, error) {
	c.mu.RLock()
	p := c.prefix
	c.mu.RUnlock()
	if p == "" {
		return "", ErrNamespaceNotBound
	}
	return p, nil
}

func (c *Cache) storageKey(key string) (string, error) {
	p, err := c.boundPrefix()
	if err != nil {
		return "", err
	}
	return p + key, nil
}

func (c *Cache) storeFailed(op, storageKey string, err error) {
	c.hooks.StoreFailed(op, storageKey, err)
	c.log.Error("store "+op+" failed", Fields{"key": storageKey, "err": err})
}

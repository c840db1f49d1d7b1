package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/nscache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	DecodeFailedEvery uint64
	StoreFailedEvery  uint64
	// Optional key redactor. Defaults to "<namespace>:" + SHA-256 prefix of the key.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	decodeCtr atomic.Uint64
	storeCtr  atomic.Uint64
}

var _ nscache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

// redact keeps the namespace readable and hashes the caller's part of the key.
func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	ns, key, ok := strings.Cut(k, ":")
	if !ok {
		ns, key = "", k
	} else {
		ns += ":"
	}
	sum := sha256.Sum256([]byte(key))
	return ns + hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) DecodeFailed(storageKey string, err error) {
	if h.l == nil || !sample(h.opts.DecodeFailedEvery, &h.decodeCtr) {
		return
	}
	h.l.Warn("nscache.decode_failed",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) StoreFailed(op, storageKey string, err error) {
	if h.l == nil || !sample(h.opts.StoreFailedEvery, &h.storeCtr) {
		return
	}
	h.l.Error("nscache.store_failed",
		"op", op,
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) Purged(namespace string, deleted int64, took time.Duration) {
	if h.l == nil {
		return
	}
	h.l.Info("nscache.purged",
		"ns", namespace,
		"deleted", deleted,
		"took", took)
}

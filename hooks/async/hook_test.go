package asynchook

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/unkn0wn-root/nscache"
)

type countHooks struct {
	nscache.NopHooks
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (c *countHooks) StoreFailed(string, string, error) {
	if c.release != nil {
		<-c.release
	}
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *countHooks) Purged(string, int64, time.Duration) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func TestDeliversBeforeClose(t *testing.T) {
	inner := &countHooks{}
	h := New(inner, 2, 16)
	for i := 0; i < 10; i++ {
		h.StoreFailed("get", "ns:k", errors.New("boom"))
	}
	h.Purged("ns:", 1, time.Millisecond)
	h.Close()
	if inner.calls != 11 {
		t.Fatalf("calls=%d", inner.calls)
	}
	if h.Dropped() != 0 {
		t.Fatalf("dropped=%d", h.Dropped())
	}
}

func TestDropsWhenFullOrClosed(t *testing.T) {
	inner := &countHooks{release: make(chan struct{})}
	h := New(inner, 1, 1)

	// first event blocks the worker, second fills the queue, the rest drop
	for i := 0; i < 5; i++ {
		h.StoreFailed("set", "ns:k", nil)
		time.Sleep(5 * time.Millisecond)
	}
	close(inner.release)
	h.Close()
	h.DecodeFailed("ns:k", nil)
	h.Close()

	if inner.calls != 2 {
		t.Fatalf("calls=%d", inner.calls)
	}
	if h.Dropped() != 4 {
		t.Fatalf("dropped=%d", h.Dropped())
	}
}

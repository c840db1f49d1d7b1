package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	s, err := New(Config{Client: client, CloseClient: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return mr, s
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNilClient)
}

func TestSetGet(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestStore(t)

	v, ok, err := s.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)

	require.NoError(t, s.Set(ctx, "k", "value", time.Minute))
	v, ok, err = s.Get(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", v)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	require.NoError(t, s.Set(ctx, "forever", "x", 0))
	assert.Zero(t, mr.TTL("forever"))

	require.NoError(t, s.Set(ctx, "empty", "", time.Minute))
	v, ok, err = s.Get(ctx, "empty")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestGetAndExpire(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestStore(t)

	require.NoError(t, s.Set(ctx, "k", "v", time.Second))
	mr.FastForward(800 * time.Millisecond)

	v, ok, err := s.GetAndExpire(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, 10*time.Second, mr.TTL("k"))

	v, ok, err = s.GetAndExpire(ctx, "k", 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Zero(t, mr.TTL("k"), "ttl <= 0 should persist the key")

	v, ok, err = s.GetAndExpire(ctx, "nope", time.Second)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
	assert.False(t, mr.Exists("nope"))
}

func TestExistsDelExpire(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestStore(t)

	ok, err := s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", "v", 0))
	ok, err = s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Expire(ctx, "k", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Second, mr.TTL("k"))

	ok, err = s.Expire(ctx, "k", 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, mr.TTL("k"))

	// PERSIST on a key without TTL still reports the key as present.
	ok, err = s.Expire(ctx, "k", -1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Expire(ctx, "missing", time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.Expire(ctx, "missing", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Del(ctx, "k"))
	require.NoError(t, s.Del(ctx, "k"), "deleting a missing key is not an error")
	assert.False(t, mr.Exists("k"))
}

func TestDeletePrefixOnlyTouchesPrefix(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestStore(t)

	for i := 0; i < 25; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("test1:k%d", i), "v"))
	}
	require.NoError(t, mr.Set("test2:k1", "v"))
	require.NoError(t, mr.Set("test10:k1", "v"))
	require.NoError(t, mr.Set("test1", "v"))

	n, err := s.DeletePrefix(ctx, "test1:", 10)
	require.NoError(t, err)
	assert.EqualValues(t, 25, n)

	assert.ElementsMatch(t, []string{"test1", "test10:k1", "test2:k1"}, mr.Keys())
}

func TestDeletePrefixEscapesGlob(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestStore(t)

	require.NoError(t, mr.Set("a*:k", "v"))
	require.NoError(t, mr.Set("ab:k", "v"))

	n, err := s.DeletePrefix(ctx, "a*:", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, []string{"ab:k"}, mr.Keys())
}

func TestDeletePrefixEmpty(t *testing.T) {
	_, s := newTestStore(t)
	n, err := s.DeletePrefix(context.Background(), "nothing:", MaxBatch)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestStore(t)
	mr.Close()

	_, _, err := s.Get(ctx, "k")
	assert.Error(t, err)
	_, _, err = s.GetAndExpire(ctx, "k", time.Second)
	assert.Error(t, err)
	assert.Error(t, s.Set(ctx, "k", "v", 0))
	_, err = s.DeletePrefix(ctx, "p:", 10)
	assert.Error(t, err)
}

func TestCloseOnlyOwnedClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	s, err := New(Config{Client: client})
	require.NoError(t, err)
	require.NoError(t, s.Close(context.Background()))
	assert.NoError(t, client.Ping(context.Background()).Err(), "borrowed client must stay open")
}

func TestConnectionDialsOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	conn := NewConnection(&goredis.UniversalOptions{Addrs: []string{mr.Addr()}})
	defer conn.Close()

	const n = 32
	clients := make([]goredis.UniversalClient, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := conn.Client(context.Background())
			assert.NoError(t, err)
			clients[i] = c
		}(i)
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		assert.Same(t, clients[0], clients[i])
	}
	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())
}

func TestConnectionRetriesAfterFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	conn := NewConnection(&goredis.UniversalOptions{Addrs: []string{addr}, DialTimeout: 200 * time.Millisecond})
	defer conn.Close()
	_, err := conn.Client(context.Background())
	require.Error(t, err)

	require.NoError(t, mr.Restart())
	c, err := conn.Client(context.Background())
	require.NoError(t, err)
	assert.NoError(t, c.Ping(context.Background()).Err())
}

func TestScanUnlinkBatches(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	for i := 0; i < 23; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("ns:k%d", i), "v"))
	}
	require.NoError(t, mr.Set("ns2:k", "v"))

	n, err := scanUnlink(ctx, client, "ns:*", 5)
	require.NoError(t, err)
	assert.EqualValues(t, 23, n)
	assert.Equal(t, []string{"ns2:k"}, mr.Keys())
}

func TestSubSecondLifetimesStayExact(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestStore(t)

	require.NoError(t, s.Set(ctx, "k", "v", 300*time.Millisecond))
	mr.FastForward(200 * time.Millisecond)

	_, ok, err := s.GetAndExpire(ctx, "k", 300*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 300*time.Millisecond, mr.TTL("k"))

	ok, err = s.Expire(ctx, "k", 250*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, mr.TTL("k"))

	mr.FastForward(260 * time.Millisecond)
	assert.False(t, mr.Exists("k"))
}

func TestDeletePrefixSmallBatches(t *testing.T) {
	ctx := context.Background()
	for _, batch := range []int{1, 3, 7} {
		t.Run(fmt.Sprintf("batch=%d", batch), func(t *testing.T) {
			mr, s := newTestStore(t)
			for i := 0; i < 101; i++ {
				require.NoError(t, mr.Set(fmt.Sprintf("ns:k%d", i), "v"))
			}
			require.NoError(t, mr.Set("other:k", "v"))

			n, err := s.DeletePrefix(ctx, "ns:", batch)
			require.NoError(t, err)
			assert.EqualValues(t, 101, n)
			assert.Equal(t, []string{"other:k"}, mr.Keys())
		})
	}
}

package redis

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/nscache/internal/util"
	pr "github.com/unkn0wn-root/nscache/provider"
)

// MaxBatch caps how many keys a single delete command may carry.
const MaxBatch = 5000

var ErrNilClient = errors.New("redis provider: nil client")

// deletePrefix collects every key matching ARGV[1] before deleting any of
// them, then deletes in chunks of ARGV[2]. Deleting while the cursor is open
// lets some servers skip keys. Runs as one script so no other client runs
// between scan and delete.
var deletePrefix = goredis.NewScript(`
local cursor = "0"
local batch = tonumber(ARGV[2])
local keys = {}
repeat
	local res = redis.call("SCAN", cursor, "MATCH", ARGV[1], "COUNT", batch)
	cursor = res[1]
	for _, k in ipairs(res[2]) do
		keys[#keys + 1] = k
	end
until cursor == "0"
local deleted = 0
for i = 1, #keys, batch do
	local last = i + batch - 1
	if last > #keys then last = #keys end
	deleted = deleted + redis.call("DEL", unpack(keys, i, last))
end
return deleted
`)

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var _ pr.Store = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this store exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

func (p *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	s, err := p.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil // miss
	}
	if err != nil {
		return "", false, err // transport/server error
	}
	return s, true, nil
}

// GetAndExpire runs {PEXPIRE|PERSIST, GET} in one MULTI/EXEC block.
// PEXPIRE keeps sub-second lifetimes exact; EXPIRE would round them up to 1s.
func (p *Redis) GetAndExpire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	var get *goredis.StringCmd
	_, err := p.rdb.TxPipelined(ctx, func(tx goredis.Pipeliner) error {
		if ttl > 0 {
			tx.PExpire(ctx, key, ttl)
		} else {
			tx.Persist(ctx, key)
		}
		get = tx.Get(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, goredis.Nil) {
		return "", false, err
	}
	s, err := get.Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func (p *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 0 // treat non-positive TTLs as "no expiry" per store contract
	}
	return p.rdb.Set(ctx, key, value, ttl).Err()
}

func (p *Redis) Del(ctx context.Context, key string) error {
	return p.rdb.Del(ctx, key).Err()
}

func (p *Redis) Exists(ctx context.Context, key string) (bool, error) {
	n, err := p.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (p *Redis) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl > 0 {
		return p.rdb.PExpire(ctx, key, ttl).Result()
	}
	// PERSIST returns 0 for keys without a TTL too, so ask EXISTS in the same block.
	var exists *goredis.IntCmd
	_, err := p.rdb.TxPipelined(ctx, func(tx goredis.Pipeliner) error {
		tx.Persist(ctx, key)
		exists = tx.Exists(ctx, key)
		return nil
	})
	if err != nil {
		return false, err
	}
	return exists.Val() > 0, nil
}

// DeletePrefix removes every key under prefix. On a single node (or sentinel
// failover client) it is one server-side script. A cluster cannot run
// cross-slot deletes from a script, so each master is scanned and its keys are
// unlinked in pipelined batches.
func (p *Redis) DeletePrefix(ctx context.Context, prefix string, batch int) (int64, error) {
	if batch <= 0 || batch > MaxBatch {
		batch = MaxBatch
	}
	match := util.MatchPrefix(prefix)

	if cc, ok := p.rdb.(*goredis.ClusterClient); ok {
		var deleted atomic.Int64
		err := cc.ForEachMaster(ctx, func(ctx context.Context, shard *goredis.Client) error {
			n, err := scanUnlink(ctx, shard, match, batch)
			deleted.Add(n)
			return err
		})
		return deleted.Load(), err
	}
	return deletePrefix.Run(ctx, p.rdb, nil, match, batch).Int64()
}

// scanUnlink finishes the SCAN before unlinking anything, then unlinks in
// pipelined chunks of batch.
func scanUnlink(ctx context.Context, shard *goredis.Client, match string, batch int) (int64, error) {
	var keys []string
	iter := shard.Scan(ctx, 0, match, int64(batch)).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}

	var deleted int64
	for _, chunk := range util.Chunk(keys, batch) {
		cmds, err := shard.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
			for _, k := range chunk {
				pipe.Unlink(ctx, k)
			}
			return nil
		})
		if err != nil {
			return deleted, err
		}
		for _, c := range cmds {
			deleted += c.(*goredis.IntCmd).Val()
		}
	}
	return deleted, nil
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Redis) Close(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

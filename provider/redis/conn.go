package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const defaultPort = "6379"

// Connection is the process-wide handle to the store. It dials lazily on the
// first Client call; concurrent first callers share one dial. A failed dial is
// not cached, the next call tries again.
type Connection struct {
	opts *goredis.UniversalOptions

	mu  sync.Mutex
	rdb atomic.Pointer[goredis.UniversalClient]
}

func NewConnection(opts *goredis.UniversalOptions) *Connection {
	return &Connection{opts: opts}
}

// Client returns the shared client, dialing and PINGing it on first use.
func (c *Connection) Client(ctx context.Context) (goredis.UniversalClient, error) {
	if p := c.rdb.Load(); p != nil {
		return *p, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if p := c.rdb.Load(); p != nil {
		return *p, nil
	}

	rdb := goredis.NewUniversalClient(c.opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: connect %s: %w", strings.Join(c.opts.Addrs, ","), err)
	}
	c.rdb.Store(&rdb)
	return rdb, nil
}

// Close closes the shared client if it was ever established.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.rdb.Swap(nil)
	if p == nil {
		return nil
	}
	return (*p).Close()
}

// ParseConnection turns a connection target into client options. It accepts
// redis:// and rediss:// URLs, and the comma separated form
//
//	host[:port][,host2[:port]...][,password=...][,user=...][,ssl=true]
//	[,defaultDatabase=N][,connectTimeout=ms][,syncTimeout=ms][,name=...]
//	[,serviceName=...][,allowAdmin=true]
//
// An empty target means "localhost". Ports default to 6379.
func ParseConnection(target string) (*goredis.UniversalOptions, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		target = "localhost"
	}
	if strings.HasPrefix(target, "redis://") || strings.HasPrefix(target, "rediss://") {
		o, err := goredis.ParseURL(target)
		if err != nil {
			return nil, err
		}
		return &goredis.UniversalOptions{
			Addrs:        []string{o.Addr},
			ClientName:   o.ClientName,
			Username:     o.Username,
			Password:     o.Password,
			DB:           o.DB,
			TLSConfig:    o.TLSConfig,
			DialTimeout:  o.DialTimeout,
			ReadTimeout:  o.ReadTimeout,
			WriteTimeout: o.WriteTimeout,
			PoolSize:     o.PoolSize,
		}, nil
	}

	o := &goredis.UniversalOptions{}
	useTLS, sslHost := false, ""
	for _, part := range strings.Split(target, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			o.Addrs = append(o.Addrs, withPort(part))
			continue
		}
		var err error
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "password":
			o.Password = v
		case "user":
			o.Username = v
		case "name":
			o.ClientName = v
		case "servicename":
			o.MasterName = v
		case "ssl":
			useTLS, err = strconv.ParseBool(v)
		case "sslhost":
			sslHost = v
		case "defaultdatabase":
			o.DB, err = strconv.Atoi(v)
		case "connecttimeout":
			o.DialTimeout, err = millis(v)
		case "synctimeout":
			o.ReadTimeout, err = millis(v)
			o.WriteTimeout = o.ReadTimeout
		case "allowadmin", "abortconnect", "connectretry", "keepalive":
			// accepted for compatibility; go-redis needs no equivalent
		default:
			return nil, fmt.Errorf("redis: unknown connection option %q", k)
		}
		if err != nil {
			return nil, fmt.Errorf("redis: connection option %s: %w", k, err)
		}
	}
	if len(o.Addrs) == 0 {
		o.Addrs = []string{withPort("localhost")}
	}
	if useTLS {
		if sslHost == "" {
			sslHost, _, _ = net.SplitHostPort(o.Addrs[0])
		}
		o.TLSConfig = &tls.Config{ServerName: sslHost, MinVersion: tls.VersionTLS12}
	}
	return o, nil
}

func withPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(strings.Trim(addr, "[]"), defaultPort)
}

func millis(v string) (time.Duration, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Millisecond, nil
}

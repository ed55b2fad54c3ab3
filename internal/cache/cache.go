// Package cache keeps rendered tags in redis for a bounded time.
//
// Entries are derived data: a miss, an expired entry or an unreachable
// redis all mean "render again". Nothing here is persistent.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"tagrender/internal/tag"
)

// KeyPrefix namespaces every cache key.
const KeyPrefix = "tagrender:tag:"

// DefaultTTL is used when a RedisCache is created with ttl <= 0.
const DefaultTTL = 10 * time.Minute

// Cache stores encoded tags by key.
type Cache interface {
	// Get returns the cached JPEG. ok is false on a miss.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte) error
	Ping(ctx context.Context) error
}

// Key derives the cache key of a render request: the kind plus the
// SHA-256 of the request's JSON encoding. Struct fields marshal in
// declaration order, so equal requests share a key.
func Key(kind tag.Kind, req any) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	sum := sha256.Sum256(raw)
	return KeyPrefix + string(kind) + ":" + hex.EncodeToString(sum[:]), nil
}

// Namespace returns a Cache that inserts ns after KeyPrefix in every key.
// Renders made with different fonts or QR settings use different
// namespaces and never share entries.
func Namespace(c Cache, ns string) Cache {
	if ns == "" {
		return c
	}
	return namespaced{Cache: c, ns: ns}
}

type namespaced struct {
	Cache
	ns string
}

func (n namespaced) key(k string) string {
	if rest, ok := strings.CutPrefix(k, KeyPrefix); ok {
		return KeyPrefix + n.ns + ":" + rest
	}
	return n.ns + ":" + k
}

func (n namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.Cache.Get(ctx, n.key(key))
}

func (n namespaced) Set(ctx context.Context, key string, data []byte) error {
	return n.Cache.Set(ctx, n.key(key), data)
}

// RedisCache is a Cache backed by go-redis with a fixed TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Dial connects to addr. The connection is lazy; use Ping to check it.
func Dial(addr, password string, db int, ttl time.Duration) *RedisCache {
	return NewRedisCache(redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}), ttl)
}

// TTL reports the expiry applied to new entries.
func (c *RedisCache) TTL() time.Duration { return c.ttl }

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, data []byte) error {
	return c.rdb.Set(ctx, key, data, c.ttl).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the redis client.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// Noop never stores anything. It is used when no redis is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte) error         { return nil }
func (Noop) Ping(context.Context) error                        { return nil }

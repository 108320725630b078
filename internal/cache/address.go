// Package cache provides the short-TTL username -> multiaddr lookup layer.
// A miss here is never authoritative; callers fall back to the durable user
// record before concluding a member has no address.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type AddressCache interface {
	// Get returns the cached multiaddr and whether the entry was present
	// and unexpired.
	Get(ctx context.Context, username string) (string, bool, error)
	Set(ctx context.Context, username, multiaddr string) error
}

const addressKeyPrefix = "addr:"

type RedisAddressCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisAddressCache(rdb *redis.Client, ttl time.Duration) *RedisAddressCache {
	return &RedisAddressCache{rdb: rdb, ttl: ttl}
}

func (c *RedisAddressCache) Get(ctx context.Context, username string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, addressKeyPrefix+username).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisAddressCache) Set(ctx context.Context, username, multiaddr string) error {
	return c.rdb.Set(ctx, addressKeyPrefix+username, multiaddr, c.ttl).Err()
}

type memoryEntry struct {
	multiaddr string
	expires   time.Time
}

// MemoryAddressCache is the process-local fallback used when REDIS_ADDR is
// unset, and in tests. Expired entries are evicted lazily on read.
type MemoryAddressCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryAddressCache(ttl time.Duration) *MemoryAddressCache {
	return &MemoryAddressCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryAddressCache) Get(ctx context.Context, username string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, exists := c.entries[username]
	if !exists {
		return "", false, nil
	}
	if c.now().After(entry.expires) {
		delete(c.entries, username)
		return "", false, nil
	}
	return entry.multiaddr, true, nil
}

func (c *MemoryAddressCache) Set(ctx context.Context, username, multiaddr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[username] = memoryEntry{multiaddr: multiaddr, expires: c.now().Add(c.ttl)}
	return nil
}

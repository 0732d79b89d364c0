package main

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key is absent or its entry has
// expired. Both backends normalize to it so callers never branch on the
// backend in use.
var ErrCacheMiss = errors.New("cache: miss")

type Cache interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Flush(ctx context.Context) error
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
	}
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	p, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, p, expiration).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (c *RedisCache) Flush(ctx context.Context) error {
	return c.client.FlushDB(ctx).Err()
}

const (
	memoryCacheMaxEntries = 1000
	memoryCleanupInterval = 5 * time.Minute
)

type memoryEntry struct {
	value      string
	expiresAt  time.Time
	lastAccess time.Time
}

// MemoryCache is the default backend: a bounded in-process map with
// per-entry TTLs. Expired entries are reaped lazily on access and swept
// in bulk at most once per cleanup interval; when the map is full a
// single least-recently-used entry is evicted to make room. The clock is
// injectable for tests.
type MemoryCache struct {
	mu          sync.Mutex
	entries     map[string]*memoryEntry
	lastCleanup time.Time
	now         func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	p, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.cleanupLocked(now)

	if _, exists := c.entries[key]; !exists && len(c.entries) >= memoryCacheMaxEntries {
		c.evictOldestLocked()
	}

	c.entries[key] = &memoryEntry{
		value:      string(p),
		expiresAt:  now.Add(expiration),
		lastAccess: now,
	}
	return nil
}

func (c *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.cleanupLocked(now)

	entry, ok := c.entries[key]
	if !ok {
		return "", ErrCacheMiss
	}
	if !entry.expiresAt.After(now) {
		delete(c.entries, key)
		return "", ErrCacheMiss
	}

	entry.lastAccess = now
	return entry.value, nil
}

func (c *MemoryCache) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*memoryEntry)
	return nil
}

// Len reports the number of live entries, expired ones included until the
// next sweep touches them.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) cleanupLocked(now time.Time) {
	if now.Sub(c.lastCleanup) < memoryCleanupInterval {
		return
	}
	c.lastCleanup = now
	for key, entry := range c.entries {
		if !entry.expiresAt.After(now) {
			delete(c.entries, key)
		}
	}
}

func (c *MemoryCache) evictOldestLocked() {
	var oldestKey string
	var oldestAccess time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.lastAccess.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = entry.lastAccess
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

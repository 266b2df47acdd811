package resolution

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"memberportal/internal/registration/models"
)

// Cache keeps successful resolutions so a retry does not hit the backend.
type Cache interface {
	Get(ctx context.Context, idNumber string) (*models.ResolvedIdentity, bool, error)
	Set(ctx context.Context, idNumber string, r *models.ResolvedIdentity, ttl time.Duration) error
}

type memoryEntry struct {
	value     models.ResolvedIdentity
	expiresAt time.Time
}

// MemoryCache is a process-local Cache. Expired entries are dropped on read
// and by Sweep.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, idNumber string) (*models.ResolvedIdentity, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[idNumber]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, idNumber)
		c.mu.Unlock()
		return nil, false, nil
	}
	v := e.value
	return &v, true, nil
}

func (c *MemoryCache) Set(_ context.Context, idNumber string, r *models.ResolvedIdentity, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[idNumber] = memoryEntry{value: *r, expiresAt: c.now().Add(ttl)}
	return nil
}

// Sweep removes expired entries and returns how many were dropped.
func (c *MemoryCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// StartCleanup sweeps every interval until ctx is cancelled. Without it an
// ID number that is never looked up again would stay cached for good.
func (c *MemoryCache) StartCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

const resolutionKeyPrefix = "idres:"

// RedisCache shares resolutions across instances.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, idNumber string) (*models.ResolvedIdentity, bool, error) {
	raw, err := c.client.Get(ctx, resolutionKeyPrefix+idNumber).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached resolution: %w", err)
	}
	var r models.ResolvedIdentity
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, false, fmt.Errorf("decode cached resolution: %w", err)
	}
	return &r, true, nil
}

func (c *RedisCache) Set(ctx context.Context, idNumber string, r *models.ResolvedIdentity, ttl time.Duration) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode resolution: %w", err)
	}
	if err := c.client.Set(ctx, resolutionKeyPrefix+idNumber, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache resolution: %w", err)
	}
	return nil
}

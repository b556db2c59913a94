package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jwebster45206/ai-dungeon-master/internal/config"
)

// NarrativeTTL bounds how long a cached room description lives.
const NarrativeTTL = 24 * time.Hour

// Cache defines the interface for caching operations
type Cache interface {
	// Ping tests the cache connection
	Ping(ctx context.Context) error

	// Set stores a value with optional expiration (0 means no expiry)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Get retrieves a value by key. A missing key returns "" and no error.
	Get(ctx context.Context, key string) (string, error)

	// Del deletes one or more keys
	Del(ctx context.Context, keys ...string) error

	// Close closes the cache connection
	Close() error
}

// NewCache builds the narrative cache named by cfg.NarrativeCache. It
// returns nil for "none".
func NewCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Cache, error) {
	switch cfg.NarrativeCache {
	case config.CacheMemory:
		return NewMemoryCache(), nil
	case config.CacheRedis:
		rc, err := NewRedisCache(cfg.RedisURL, logger)
		if err != nil {
			return nil, err
		}
		if err := rc.Ping(ctx); err != nil {
			_ = rc.Close()
			return nil, err
		}
		return rc, nil
	case config.CacheNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown narrative cache %q", cfg.NarrativeCache)
	}
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryCache) Ping(ctx context.Context) error { return nil }

func (m *MemoryCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: value}
	if expiration > 0 {
		e.expires = m.now().Add(expiration)
	}
	m.entries[key] = e
	return nil
}

func (m *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return "", nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return "", nil
	}
	return e.value, nil
}

func (m *MemoryCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *MemoryCache) Close() error { return nil }

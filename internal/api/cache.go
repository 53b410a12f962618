package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/engine"
)

// Cache stores computed calendars. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(key string) (*engine.Result, bool)
	Put(key string, result *engine.Result)
}

// CacheKey hashes the request parameters. The bucket suffix is the start of
// the current TTL window, so entries also rotate when the clock moves on.
func CacheKey(p engine.Params, now time.Time, ttl time.Duration) string {
	p.Nation = strings.ToUpper(p.Nation)
	p.Diocese = strings.ToLower(p.Diocese)
	p.Locale = strings.ToLower(p.Locale)

	// Params holds only strings, ints and pointers to them.
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)

	bucket := int64(0)
	if ttl > 0 {
		bucket = now.Truncate(ttl).Unix()
	}
	return fmt.Sprintf("%s-%d", hex.EncodeToString(sum[:]), bucket)
}

type cacheEntry struct {
	result  *engine.Result
	expires time.Time
}

// MemoryCache is an in-process Cache with a fixed TTL.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewMemoryCache creates a cache whose entries live for ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached result for key if it has not expired.
func (c *MemoryCache) Get(key string) (*engine.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.result, true
}

// Put stores result under key and drops expired entries.
func (c *MemoryCache) Put(key string, result *engine.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{result: result, expires: now.Add(c.ttl)}
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

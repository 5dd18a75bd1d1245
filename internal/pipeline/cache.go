package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sells-group/leadgen-cli/internal/capability"
)

// Cache holds built pipelines keyed by credential identity so repeated runs
// with the same credentials reuse one instance. Entries expire after the TTL;
// concurrent misses for the same key build at most once.
type Cache struct {
	ttl   time.Duration
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	p       *Pipeline
	expires time.Time
}

// NewCache creates a pipeline cache with the given entry lifetime.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// CacheKey derives the cache key from the model credential and the
// capability credentials. Changing any of them yields a new key, so a
// credential rotation never reuses a pipeline built with the old secrets.
func CacheKey(anthropicKey string, creds capability.Credentials) string {
	h := sha256.New()
	h.Write([]byte(anthropicKey))
	h.Write([]byte{0})
	h.Write([]byte(creds.Identity()))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached pipeline for key, building one via build on a miss
// or an expired entry. Build errors are not cached.
func (c *Cache) Get(key string, build func() (*Pipeline, error)) (*Pipeline, error) {
	if p, ok := c.lookup(key); ok {
		return p, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent caller may have populated the entry while this one
		// was waiting on the flight group.
		if p, ok := c.lookup(key); ok {
			return p, nil
		}

		p, err := build()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = cacheEntry{p: p, expires: time.Now().Add(c.ttl)}
		c.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Pipeline), nil
}

// Len reports the number of live entries, for diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if time.Now().Before(e.expires) {
			n++
		}
	}
	return n
}

func (c *Cache) lookup(key string) (*Pipeline, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.p, true
}

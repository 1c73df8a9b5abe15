package cache

import (
	"sync"
	"time"
)

// TTLCache is an in-memory cache whose entries expire after a fixed TTL
type TTLCache[V any] struct {
	data    map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	cleanup *time.Ticker
	done    chan struct{}
	once    sync.Once

	statsMu sync.Mutex
	hits    int64
	misses  int64
}

type entry[V any] struct {
	value      V
	expiration time.Time
}

// Stats reports cache usage
type Stats struct {
	Size    int     `json:"size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// New creates a cache and starts its cleanup goroutine. Call Stop when done.
func New[V any](ttl time.Duration) *TTLCache[V] {
	c := &TTLCache[V]{
		data:    make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
		cleanup: time.NewTicker(time.Minute),
		done:    make(chan struct{}),
	}

	go c.cleanupLoop()

	return c
}

// Get retrieves a live value
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if ok && c.now().After(e.expiration) {
		ok = false
	}

	c.statsMu.Lock()
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.statsMu.Unlock()

	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value with the cache TTL
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = entry[V]{value: value, expiration: c.now().Add(c.ttl)}
}

// Delete removes a value
func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
}

// GetOrSet returns the cached value or computes and stores it. Errors are
// not cached.
func (c *TTLCache[V]) GetOrSet(key string, compute func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	c.Set(key, value)
	return value, nil
}

// Size returns the number of stored entries, expired or not
func (c *TTLCache[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}

// Stats returns hit/miss counters
func (c *TTLCache[V]) Stats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:    c.Size(),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
	}
}

// Stop stops the cleanup goroutine
func (c *TTLCache[V]) Stop() {
	c.once.Do(func() {
		c.cleanup.Stop()
		close(c.done)
	})
}

func (c *TTLCache[V]) cleanupLoop() {
	for {
		select {
		case <-c.cleanup.C:
			c.removeExpired()
		case <-c.done:
			return
		}
	}
}

func (c *TTLCache[V]) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.data {
		if now.After(e.expiration) {
			delete(c.data, key)
		}
	}
}

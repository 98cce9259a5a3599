package provider

import (
	"sync"

	"github.com/VictoriaMetrics/fastcache"
)

// Cache is the provider's in-memory, content-addressed proof cache (spec
// §9 "Provider cache", SPEC_FULL §6.2). Keys are opaque byte strings built
// by the caller from (chain, block, kind, key); values are whatever
// caller-defined byte encoding it stores there (RLP, JSON, raw proof
// nodes).
//
// A per-key in-flight map collapses concurrent requests for the same key
// into a single upstream fetch, mirroring the "single promise per key" note
// in spec §9; this is hand-rolled rather than golang.org/x/sync/singleflight
// since the pack never imports that package (see DESIGN.md).
type Cache struct {
	bytes *fastcache.Cache

	mu       sync.Mutex
	inFlight map[string]*call
}

type call struct {
	done  chan struct{}
	value []byte
	err   error
}

// NewCache allocates a cache with the given byte budget.
func NewCache(maxBytes int) *Cache {
	return &Cache{
		bytes:    fastcache.New(maxBytes),
		inFlight: make(map[string]*call),
	}
}

// Get returns the cached value for key, if present.
func (c *Cache) Get(key []byte) ([]byte, bool) {
	v := c.bytes.GetBig(nil, key)
	if len(v) == 0 {
		return nil, false
	}
	return v, true
}

// Set stores value under key.
func (c *Cache) Set(key, value []byte) {
	c.bytes.SetBig(key, value)
}

// GetOrFetch returns the cached value for key, or runs fetch exactly once
// across any number of concurrent callers sharing that key, caching and
// returning its result.
func (c *Cache) GetOrFetch(key []byte, fetch func() ([]byte, error)) ([]byte, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	keyStr := string(key)

	c.mu.Lock()
	if existing, ok := c.inFlight[keyStr]; ok {
		c.mu.Unlock()
		<-existing.done
		return existing.value, existing.err
	}
	self := &call{done: make(chan struct{})}
	c.inFlight[keyStr] = self
	c.mu.Unlock()

	value, err := fetch()
	self.value, self.err = value, err
	close(self.done)

	c.mu.Lock()
	delete(c.inFlight, keyStr)
	c.mu.Unlock()

	if err == nil {
		c.Set(key, value)
	}
	return value, err
}

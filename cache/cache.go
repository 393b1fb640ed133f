// Package cache implements a bounded key-value cache whose eviction
// strategy (FIFO, LIFO or random replacement) is chosen at construction.
package cache

// cache/cache.go

import (
	"fmt"
	"io"

	"github.com/evanjt06/evictcache/internal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Cache holds at most Capacity entries. When a new key arrives at a full
// cache, the policy picks one existing entry to discard.
//
// A Cache is not safe for concurrent use. Callers sharing one across
// goroutines must serialize access themselves, e.g. with a sync.Mutex.
type Cache[K comparable, V any] struct {
	items    map[K]V
	order    tracker[K]
	capacity int
	policy   Policy
	logger   *zap.SugaredLogger
	debug    bool // logger has debug enabled
	onEvict  func(key K, value V)
}

// New returns an empty cache holding at most capacity entries.
func New[K comparable, V any](capacity int, policy Policy, opts ...Option) (*Cache[K, V], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	order, err := newTracker[K](policy, capacity, o.rng)
	if err != nil {
		return nil, err
	}

	return &Cache[K, V]{
		items:    make(map[K]V, capacity),
		order:    order,
		capacity: capacity,
		policy:   policy,
		logger:   o.logger,
		debug:    o.logger.Desugar().Core().Enabled(zapcore.DebugLevel),
	}, nil
}

// OnEvict registers fn to be called with every entry discarded to make room.
// A nil fn removes the callback.
func (c *Cache[K, V]) OnEvict(fn func(key K, value V)) {
	c.onEvict = fn
}

// Get returns the value stored under key. Reads never affect eviction order.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	if err := internal.ValidateKey(key); err != nil {
		if c.debug {
			c.logger.Debugw("Invalid key rejected", "key", key, "error", err)
		}
		var zero V
		return zero, false
	}

	value, ok := c.items[key]
	return value, ok
}

// Set stores value under key and reports whether it was stored.
//
// An existing key has its value replaced in place and keeps its position.
// A new key arriving at a full cache first evicts the policy's victim.
// Set returns false for keys that cannot be used as map keys, and when no
// victim could be evicted, which means the cache's internal state is broken.
func (c *Cache[K, V]) Set(key K, value V) bool {
	// validate key first
	if err := internal.ValidateKey(key); err != nil {
		if c.debug {
			c.logger.Debugw("Invalid key rejected", "key", key, "error", err)
		}
		return false
	}

	if _, ok := c.items[key]; ok {
		c.items[key] = value
		if c.debug {
			c.logger.Debugw("Updated entry in place", "key", key)
		}
		return true
	}

	if len(c.items) >= c.capacity && !c.evict() {
		return false
	}

	c.items[key] = value
	c.order.insert(key)

	if c.debug {
		c.logger.Debugw("Inserted entry",
			"key", key,
			"policy", c.policy,
			"size", len(c.items),
		)
	}
	return true
}

// evict drops one victim from both the index and the tracker. It mutates
// nothing unless the victim is present in both.
func (c *Cache[K, V]) evict() bool {
	victim, ok := c.order.victim()
	if !ok {
		c.logger.Errorw("No eviction victim while at capacity",
			"size", len(c.items),
			"tracked", c.order.len(),
			"capacity", c.capacity,
		)
		return false
	}

	value, ok := c.items[victim]
	if !ok {
		c.logger.Errorw("Eviction victim missing from index", "key", victim, "policy", c.policy)
		return false
	}

	c.order.remove(victim)
	delete(c.items, victim)

	if c.debug {
		c.logger.Debugw("Deleted entry due to capacity",
			"key", victim,
			"policy", c.policy,
		)
	}

	if c.onEvict != nil {
		c.onEvict(victim, value)
	}
	return true
}

// Len returns the number of stored entries.
func (c *Cache[K, V]) Len() int {
	return len(c.items)
}

func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

func (c *Cache[K, V]) Policy() Policy {
	return c.policy
}

// Keys returns the stored keys in tracker order: insertion order for FIFO
// and LIFO, arbitrary for RandomReplacement.
func (c *Cache[K, V]) Keys() []K {
	return c.order.keys()
}

// Print writes one line per entry, in Keys order.
func (c *Cache[K, V]) Print(w io.Writer) {
	for _, key := range c.order.keys() {
		fmt.Fprintf(w, "Key: %v, Value: %v\n", key, c.items[key])
	}
}

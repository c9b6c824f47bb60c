// Package cache provides a small read-through cache with explicit
// invalidation, backed by an expirable LRU.
//
// A ReadThrough is owned by the component that performs writes (for example
// a store instance), so its lifetime matches that component instead of the
// process. Writers call Invalidate or InvalidateAll after every mutation.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "glesp",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Read-through cache lookups by cache and result (hit, miss).",
		},
		[]string{"cache", "result"},
	)
	entries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "glesp",
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Entries held by each read-through cache.",
		},
		[]string{"cache"},
	)
)

func init() {
	prometheus.MustRegister(lookups, entries)
}

// Loader fetches the authoritative value for key on a cache miss.
type Loader[K comparable, V any] func(ctx context.Context, key K) (V, error)

// ReadThrough serves values from an LRU and falls back to a Loader on a miss.
// Errors are never cached.
type ReadThrough[K comparable, V any] struct {
	lru  *expirable.LRU[K, V]
	load Loader[K, V]

	mu  sync.Mutex
	gen uint64 // bumped by every invalidation

	hits, misses prometheus.Counter
	size         prometheus.Gauge
}

// New builds a ReadThrough holding at most size entries for ttl each. A
// non-positive size defaults to 128; a zero ttl disables expiry. name labels
// the cache's metrics.
func New[K comparable, V any](name string, size int, ttl time.Duration, load Loader[K, V]) *ReadThrough[K, V] {
	if size <= 0 {
		size = 128
	}
	c := &ReadThrough[K, V]{
		lru:    expirable.NewLRU[K, V](size, nil, ttl),
		load:   load,
		hits:   lookups.WithLabelValues(name, "hit"),
		misses: lookups.WithLabelValues(name, "miss"),
		size:   entries.WithLabelValues(name),
	}
	c.size.Set(0)
	return c
}

// Get returns the cached value for key or loads and caches it. A load that
// races with an invalidation is returned but not cached.
func (c *ReadThrough[K, V]) Get(ctx context.Context, key K) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		c.hits.Inc()
		return v, nil
	}
	c.misses.Inc()

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	v, err := c.load(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	if gen == c.gen {
		c.lru.Add(key, v)
		c.size.Set(float64(c.lru.Len()))
	}
	c.mu.Unlock()
	return v, nil
}

// Invalidate drops key.
func (c *ReadThrough[K, V]) Invalidate(key K) {
	c.mu.Lock()
	c.gen++
	c.lru.Remove(key)
	c.size.Set(float64(c.lru.Len()))
	c.mu.Unlock()
}

// InvalidateAll drops every entry.
func (c *ReadThrough[K, V]) InvalidateAll() {
	c.mu.Lock()
	c.gen++
	c.lru.Purge()
	c.size.Set(0)
	c.mu.Unlock()
}

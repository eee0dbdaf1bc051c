// Package fetchcache is a read-through cache with in-flight request
// coalescing for outbound data-fetch calls. Concurrent callers asking for
// the same key share one fetch and receive the same result; successful
// results are cached with a caller-supplied TTL, failures are never
// cached so the next caller retries.
package fetchcache

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrTimeout marks an operation abandoned by WithTimeout. It is distinct
// from ordinary fetch failures: the underlying operation may still be
// running and its side effects may still happen.
var ErrTimeout = errors.New("fetch timed out")

// Fetch loads a value from the authoritative source.
type Fetch func(ctx context.Context) (any, error)

// Cache coalesces and caches fetches by key.
type Cache struct {
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]entry

	maxEntries    int
	evictFraction float64

	now func() time.Time
}

type entry struct {
	value     any
	expiresAt time.Time
	writtenAt time.Time
}

// Options configures a Cache.
type Options struct {
	// MaxEntries bounds the result cache; 0 means unbounded.
	MaxEntries int
	// EvictFraction is the share of oldest entries removed when the
	// bound is hit. Values outside (0, 1] fall back to 0.2.
	EvictFraction float64
}

// New creates an empty Cache.
func New(opts Options) *Cache {
	frac := opts.EvictFraction
	if frac <= 0 || frac > 1 {
		frac = 0.2
	}
	return &Cache{
		entries:       make(map[string]entry),
		maxEntries:    opts.MaxEntries,
		evictFraction: frac,
		now:           time.Now,
	}
}

// Do returns the cached value for key when fresh. Otherwise it invokes
// fetch, coalescing concurrent callers into a single invocation, and on
// success caches the result for ttl. On failure nothing is cached and the
// in-flight marker is cleared so the next caller retries.
func (c *Cache) Do(ctx context.Context, key string, ttl time.Duration, fetch Fetch) (any, error) {
	if v, ok := c.get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under coalescing: a concurrent caller may have
		// populated the cache between the miss and this closure.
		if v, ok := c.get(key); ok {
			return v, nil
		}
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.set(key, v, ttl)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Invalidate removes every cached entry whose key contains substr, and
// forgets matching in-flight requests. Returns the number of cached
// entries removed.
func (c *Cache) Invalidate(substr string) int {
	return c.invalidate(func(key string) bool {
		return strings.Contains(key, substr)
	})
}

// InvalidatePattern is Invalidate with a regular expression.
func (c *Cache) InvalidatePattern(re *regexp.Regexp) int {
	return c.invalidate(re.MatchString)
}

// Len returns the number of cached results, expired entries included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) invalidate(match func(string) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k := range c.entries {
		if match(k) {
			delete(c.entries, k)
			c.group.Forget(k)
			removed++
		}
	}
	return removed
}

func (c *Cache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) set(key string, value any, ttl time.Duration) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}

	c.entries[key] = entry{value: value, expiresAt: now.Add(ttl), writtenAt: now}
}

// evictOldestLocked removes the oldest evictFraction of entries by write
// timestamp. Caller must hold the lock.
func (c *Cache) evictOldestLocked() {
	n := int(float64(len(c.entries)) * c.evictFraction)
	if n < 1 {
		n = 1
	}

	type aged struct {
		key       string
		writtenAt time.Time
	}
	ages := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		ages = append(ages, aged{key: k, writtenAt: e.writtenAt})
	}
	sort.Slice(ages, func(i, j int) bool {
		return ages[i].writtenAt.Before(ages[j].writtenAt)
	})

	for i := 0; i < n && i < len(ages); i++ {
		delete(c.entries, ages[i].key)
	}
}

// WithTimeout races fn against a timer. When the timer fires first the
// call returns ErrTimeout; fn keeps running in the background and its
// result is discarded, so a timed-out write means "unknown outcome", not
// "rolled back".
func WithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{value: v, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var zero T
	select {
	case r := <-done:
		return r.value, r.err
	case <-timer.C:
		return zero, ErrTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

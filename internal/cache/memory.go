package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Store is the minimal backing-store contract. Implementations must be
// safe for concurrent use. Get must treat expired entries as absent.
type Store interface {
	Get(key Key) (any, bool)
	Set(key Key, value any, ttl time.Duration)
	Delete(key Key)
	Len() int
}

// MemoryStore is the in-process Store implementation. Expiry is lazy: an
// expired entry is detected on read; RemoveExpired reclaims memory in bulk
// and is meant to run from a periodic cleanup goroutine.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Key]memEntry

	maxEntries    int
	evictFraction float64

	// now is swappable in tests.
	now func() time.Time
}

type memEntry struct {
	value     any
	expiresAt time.Time
	writtenAt time.Time
}

// MemoryStoreOptions configures a MemoryStore.
type MemoryStoreOptions struct {
	// MaxEntries bounds the entry count; 0 means unbounded.
	MaxEntries int
	// EvictFraction is the share of oldest entries removed when the
	// bound is hit. Values outside (0, 1] fall back to 0.2.
	EvictFraction float64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts MemoryStoreOptions) *MemoryStore {
	frac := opts.EvictFraction
	if frac <= 0 || frac > 1 {
		frac = 0.2
	}
	return &MemoryStore{
		entries:       make(map[Key]memEntry),
		maxEntries:    opts.MaxEntries,
		evictFraction: frac,
		now:           time.Now,
	}
}

// Get returns the cached value if present and not expired.
func (s *MemoryStore) Get(key Key) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		s.Delete(key)
		return nil, false
	}
	return e.value, true
}

// Set stores value with an absolute expiry of now + ttl. When the store is
// full it first evicts the oldest entries by write time. Write recency is
// deliberately the eviction criterion: reads do not refresh recency, which
// approximates LRU at far lower bookkeeping cost.
func (s *MemoryStore) Set(key Key, value any, ttl time.Duration) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}

	s.entries[key] = memEntry{
		value:     value,
		expiresAt: now.Add(ttl),
		writtenAt: now,
	}
}

// Delete removes a single entry. Missing keys are a no-op.
func (s *MemoryStore) Delete(key Key) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len returns the current entry count, expired entries included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// RemoveExpired deletes all expired entries and returns how many were
// removed.
func (s *MemoryStore) RemoveExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// StartCleanup runs RemoveExpired every interval until ctx is cancelled.
// Cleanup is a memory optimization only; correctness does not depend on it
// because Get checks expiry on read.
func (s *MemoryStore) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.RemoveExpired()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// evictOldestLocked removes the oldest evictFraction of entries by write
// timestamp. Caller must hold the write lock.
func (s *MemoryStore) evictOldestLocked() {
	n := int(float64(len(s.entries)) * s.evictFraction)
	if n < 1 {
		n = 1
	}

	type aged struct {
		key       Key
		writtenAt time.Time
	}
	ages := make([]aged, 0, len(s.entries))
	for k, e := range s.entries {
		ages = append(ages, aged{key: k, writtenAt: e.writtenAt})
	}
	sort.Slice(ages, func(i, j int) bool {
		return ages[i].writtenAt.Before(ages[j].writtenAt)
	})

	for i := 0; i < n && i < len(ages); i++ {
		delete(s.entries, ages[i].key)
	}
}

package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

func newTestWordCache(t *testing.T) (*WordCache, *fakeClock) {
	t.Helper()
	store, clock := newTestStore(MemoryStoreOptions{})
	return NewWordCache(store, DefaultTTLs(), 20), clock
}

func someWords(userID uuid.UUID, level domain.Level, batch, n int) []domain.Word {
	words := make([]domain.Word, n)
	for i := range words {
		words[i] = domain.Word{
			ID:          uuid.New(),
			UserID:      userID,
			Original:    "palabra",
			Translation: "word",
			Level:       level,
			BatchNumber: batch,
		}
	}
	return words
}

func TestWordCacheReadThrough(t *testing.T) {
	c, _ := newTestWordCache(t)
	userID := uuid.New()

	_, ok := c.GetBatchWords(userID, domain.LevelA1, 1)
	require.False(t, ok, "cold cache must miss")

	words := someWords(userID, domain.LevelA1, 1, 3)
	c.SetBatchWords(userID, domain.LevelA1, 1, words)

	got, ok := c.GetBatchWords(userID, domain.LevelA1, 1)
	require.True(t, ok)
	assert.Equal(t, words, got)
}

func TestWordCacheTTLExpiry(t *testing.T) {
	c, clock := newTestWordCache(t)
	userID := uuid.New()

	c.SetWordCount(userID, domain.LevelA1, 120)

	count, ok := c.GetWordCount(userID, domain.LevelA1)
	require.True(t, ok)
	assert.Equal(t, 120, count)

	clock.Advance(time.Hour + time.Second)

	_, ok = c.GetWordCount(userID, domain.LevelA1)
	assert.False(t, ok, "word count expires after its TTL")
}

func TestWordCacheInvalidateBatch(t *testing.T) {
	c, _ := newTestWordCache(t)
	userID := uuid.New()

	c.SetBatchWords(userID, domain.LevelA1, 3, someWords(userID, domain.LevelA1, 3, 2))
	c.SetBatchStats(userID, domain.LevelA1, 3, domain.BatchStats{BatchNumber: 3, Total: 50, Learned: 10})
	c.SetUserWords(userID, domain.LevelA1, someWords(userID, domain.LevelA1, 0, 2))
	c.SetLearnedWords(userID, domain.LevelA1, someWords(userID, domain.LevelA1, 0, 1))
	c.SetWordCount(userID, domain.LevelA1, 150)

	// An unrelated batch entry must survive.
	c.SetBatchWords(userID, domain.LevelA1, 4, someWords(userID, domain.LevelA1, 4, 2))

	c.InvalidateBatch(userID, domain.LevelA1, 3)

	_, ok := c.GetBatchWords(userID, domain.LevelA1, 3)
	assert.False(t, ok, "batch entry invalidated")
	_, ok = c.GetBatchStats(userID, domain.LevelA1, 3)
	assert.False(t, ok, "batch stats invalidated alongside")
	_, ok = c.GetUserWords(userID, domain.LevelA1)
	assert.False(t, ok, "user-words aggregate invalidated alongside")
	_, ok = c.GetLearnedWords(userID, domain.LevelA1)
	assert.False(t, ok, "learned-words aggregate invalidated alongside")
	_, ok = c.GetWordCount(userID, domain.LevelA1)
	assert.False(t, ok, "word-count aggregate invalidated alongside")

	_, ok = c.GetBatchWords(userID, domain.LevelA1, 4)
	assert.True(t, ok, "other batches are untouched")
}

func TestWordCacheInvalidateUser(t *testing.T) {
	c, _ := newTestWordCache(t)
	userID := uuid.New()
	otherID := uuid.New()

	for _, level := range domain.Levels {
		c.SetWordCount(userID, level, 10)
		c.SetBatchWords(userID, level, 20, someWords(userID, level, 20, 1))
	}
	c.SetWordCount(otherID, domain.LevelA1, 99)

	c.InvalidateUser(userID)

	for _, level := range domain.Levels {
		_, ok := c.GetWordCount(userID, level)
		assert.False(t, ok, "count for %s invalidated", level)
		_, ok = c.GetBatchWords(userID, level, 20)
		assert.False(t, ok, "batch for %s invalidated", level)
	}

	count, ok := c.GetWordCount(otherID, domain.LevelA1)
	require.True(t, ok, "other learners' entries survive")
	assert.Equal(t, 99, count)
}

// countingStore records how many deletes a wrapped Store receives.
type countingStore struct {
	Store
	deletes int
}

func (s *countingStore) Delete(key Key) {
	s.deletes++
	s.Store.Delete(key)
}

func TestWordCacheInvalidateUserBoundedEnumeration(t *testing.T) {
	inner, _ := newTestStore(MemoryStoreOptions{})
	store := &countingStore{Store: inner}
	c := NewWordCache(store, DefaultTTLs(), 20)

	c.InvalidateUser(uuid.New())

	// 4 per-level kinds plus 2 per-batch kinds for each of the 20 batch
	// slots, across all 6 levels. The bound is the batch count per level;
	// a cache sizing knob here would multiply this by orders of magnitude.
	want := len(domain.Levels) * (4 + 2*20)
	assert.Equal(t, want, store.deletes)
}

func TestWordCacheTypedMismatch(t *testing.T) {
	store, _ := newTestStore(MemoryStoreOptions{})
	c := NewWordCache(store, DefaultTTLs(), 20)
	userID := uuid.New()

	// A value of the wrong shape behaves as a miss, not a panic.
	store.Set(WordCountKey(userID, domain.LevelA1), "not-an-int", time.Minute)

	_, ok := c.GetWordCount(userID, domain.LevelA1)
	assert.False(t, ok)
}

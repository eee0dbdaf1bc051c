package cache

import (
	"time"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

// TTLConfig holds per-kind time-to-live values. Volatile aggregates get
// short TTLs; the word count changes shape rarely and can live longer.
type TTLConfig struct {
	UserWords     time.Duration
	LearnedWords  time.Duration
	WordCount     time.Duration
	Batch         time.Duration
	BatchStats    time.Duration
	GeneratedPool time.Duration
}

// DefaultTTLs returns the production TTLs.
func DefaultTTLs() TTLConfig {
	return TTLConfig{
		UserWords:     30 * time.Minute,
		LearnedWords:  15 * time.Minute,
		WordCount:     time.Hour,
		Batch:         30 * time.Minute,
		BatchStats:    15 * time.Minute,
		GeneratedPool: 10 * time.Minute,
	}
}

// WordCache is the typed facade over a Store for per-learner word data.
// Invalidation is bounded enumeration over the key space known from
// configuration, never a wildcard scan.
type WordCache struct {
	store      Store
	ttls       TTLConfig
	maxBatches int
}

// NewWordCache creates a WordCache. maxBatches bounds the per-level batch
// key space for InvalidateUser.
func NewWordCache(store Store, ttls TTLConfig, maxBatches int) *WordCache {
	return &WordCache{store: store, ttls: ttls, maxBatches: maxBatches}
}

// GetBatchWords returns a cached batch word list.
func (c *WordCache) GetBatchWords(userID uuid.UUID, level domain.Level, batch int) ([]domain.Word, bool) {
	v, ok := c.store.Get(BatchKey(userID, level, batch))
	if !ok {
		return nil, false
	}
	words, ok := v.([]domain.Word)
	return words, ok
}

// SetBatchWords caches a batch word list.
func (c *WordCache) SetBatchWords(userID uuid.UUID, level domain.Level, batch int, words []domain.Word) {
	c.store.Set(BatchKey(userID, level, batch), words, c.ttls.Batch)
}

// GetBatchStats returns cached stats for a single batch.
func (c *WordCache) GetBatchStats(userID uuid.UUID, level domain.Level, batch int) (domain.BatchStats, bool) {
	v, ok := c.store.Get(BatchStatsKey(userID, level, batch))
	if !ok {
		return domain.BatchStats{}, false
	}
	stats, ok := v.(domain.BatchStats)
	return stats, ok
}

// SetBatchStats caches stats for a single batch.
func (c *WordCache) SetBatchStats(userID uuid.UUID, level domain.Level, batch int, stats domain.BatchStats) {
	c.store.Set(BatchStatsKey(userID, level, batch), stats, c.ttls.BatchStats)
}

// GetUserWords returns a learner's cached word list for a level.
func (c *WordCache) GetUserWords(userID uuid.UUID, level domain.Level) ([]domain.Word, bool) {
	v, ok := c.store.Get(UserWordsKey(userID, level))
	if !ok {
		return nil, false
	}
	words, ok := v.([]domain.Word)
	return words, ok
}

// SetUserWords caches a learner's word list for a level.
func (c *WordCache) SetUserWords(userID uuid.UUID, level domain.Level, words []domain.Word) {
	c.store.Set(UserWordsKey(userID, level), words, c.ttls.UserWords)
}

// GetLearnedWords returns a learner's cached learned-word list for a level.
func (c *WordCache) GetLearnedWords(userID uuid.UUID, level domain.Level) ([]domain.Word, bool) {
	v, ok := c.store.Get(LearnedWordsKey(userID, level))
	if !ok {
		return nil, false
	}
	words, ok := v.([]domain.Word)
	return words, ok
}

// SetLearnedWords caches a learner's learned-word list for a level.
func (c *WordCache) SetLearnedWords(userID uuid.UUID, level domain.Level, words []domain.Word) {
	c.store.Set(LearnedWordsKey(userID, level), words, c.ttls.LearnedWords)
}

// GetWordCount returns a learner's cached word count for a level.
// Display use only: progression gates re-read counts from persistence.
func (c *WordCache) GetWordCount(userID uuid.UUID, level domain.Level) (int, bool) {
	v, ok := c.store.Get(WordCountKey(userID, level))
	if !ok {
		return 0, false
	}
	count, ok := v.(int)
	return count, ok
}

// SetWordCount caches a learner's word count for a level.
func (c *WordCache) SetWordCount(userID uuid.UUID, level domain.Level, count int) {
	c.store.Set(WordCountKey(userID, level), count, c.ttls.WordCount)
}

// GetGeneratedPool returns a learner's cached generated-words pool.
func (c *WordCache) GetGeneratedPool(userID uuid.UUID, level domain.Level) ([]domain.WordPair, bool) {
	v, ok := c.store.Get(GeneratedPoolKey(userID, level))
	if !ok {
		return nil, false
	}
	pool, ok := v.([]domain.WordPair)
	return pool, ok
}

// SetGeneratedPool caches a learner's generated-words pool.
func (c *WordCache) SetGeneratedPool(userID uuid.UUID, level domain.Level, pool []domain.WordPair) {
	c.store.Set(GeneratedPoolKey(userID, level), pool, c.ttls.GeneratedPool)
}

// InvalidateBatch removes one batch's entry plus the aggregate entries a
// single learned-flag flip can affect: batch stats, the level word lists,
// and the word count.
func (c *WordCache) InvalidateBatch(userID uuid.UUID, level domain.Level, batch int) {
	c.store.Delete(BatchKey(userID, level, batch))
	c.store.Delete(BatchStatsKey(userID, level, batch))
	c.store.Delete(UserWordsKey(userID, level))
	c.store.Delete(LearnedWordsKey(userID, level))
	c.store.Delete(WordCountKey(userID, level))
}

// InvalidateUser removes every cache kind for the learner across all
// levels and all batch numbers up to the configured maximum per level.
func (c *WordCache) InvalidateUser(userID uuid.UUID) {
	for _, level := range domain.Levels {
		c.store.Delete(UserWordsKey(userID, level))
		c.store.Delete(LearnedWordsKey(userID, level))
		c.store.Delete(WordCountKey(userID, level))
		c.store.Delete(GeneratedPoolKey(userID, level))
		for batch := 1; batch <= c.maxBatches; batch++ {
			c.store.Delete(BatchKey(userID, level, batch))
			c.store.Delete(BatchStatsKey(userID, level, batch))
		}
	}
}

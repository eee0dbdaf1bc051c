// Package cache provides the in-process read-through cache fronting
// per-learner word data. The backing store is an interface so the memory
// implementation can be swapped for a networked cache without changing
// callers. The cache is per-process: cross-process consistency relies on
// persistence plus bounded TTLs, never on cache coherence.
package cache

import (
	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

// Kind tags the family of cached data a key refers to.
type Kind string

const (
	KindUserWords     Kind = "user-words"
	KindLearnedWords  Kind = "learned-words"
	KindWordCount     Kind = "word-count"
	KindBatch         Kind = "batch"
	KindBatchStats    Kind = "batch-stats"
	KindGeneratedPool Kind = "generated-words-pool"
)

// Key identifies one cache entry. Batch is zero for kinds that are not
// batch-scoped. Keys are comparable and used directly as map keys.
type Key struct {
	Kind   Kind
	UserID uuid.UUID
	Level  domain.Level
	Batch  int
}

// BatchKey builds the key for a single batch's word list.
func BatchKey(userID uuid.UUID, level domain.Level, batch int) Key {
	return Key{Kind: KindBatch, UserID: userID, Level: level, Batch: batch}
}

// BatchStatsKey builds the key for a single batch's stats.
func BatchStatsKey(userID uuid.UUID, level domain.Level, batch int) Key {
	return Key{Kind: KindBatchStats, UserID: userID, Level: level, Batch: batch}
}

// UserWordsKey builds the key for a learner's full word list at a level.
func UserWordsKey(userID uuid.UUID, level domain.Level) Key {
	return Key{Kind: KindUserWords, UserID: userID, Level: level}
}

// LearnedWordsKey builds the key for a learner's learned words at a level.
func LearnedWordsKey(userID uuid.UUID, level domain.Level) Key {
	return Key{Kind: KindLearnedWords, UserID: userID, Level: level}
}

// WordCountKey builds the key for a learner's word count at a level.
func WordCountKey(userID uuid.UUID, level domain.Level) Key {
	return Key{Kind: KindWordCount, UserID: userID, Level: level}
}

// GeneratedPoolKey builds the key for a learner's generated-words pool.
func GeneratedPoolKey(userID uuid.UUID, level domain.Level) Key {
	return Key{Kind: KindGeneratedPool, UserID: userID, Level: level}
}

// Package policy contains the pure batch-numbering and level-progression
// rules. Functions here are stateless arithmetic over Config; they never
// touch persistence or caches.
package policy

// Config holds the process-wide batching constants. Read-only after
// initialization.
type Config struct {
	// WordsPerBatch is the fixed size of one batch.
	WordsPerBatch int
	// WordsPerLevel is the hard quota for advancing to the next level.
	WordsPerLevel int
	// MinCompletionFraction is the soft per-batch mastery gate
	// (0.8 = 80% of a batch must be learned to advance within a level).
	MinCompletionFraction float64
}

// Default returns the production configuration: 50-word batches,
// 1000 words per level, 80% batch completion.
func Default() Config {
	return Config{
		WordsPerBatch:         50,
		WordsPerLevel:         1000,
		MinCompletionFraction: 0.8,
	}
}

// BatchesPerLevel returns ceil(WordsPerLevel / WordsPerBatch).
func (c Config) BatchesPerLevel() int {
	return (c.WordsPerLevel + c.WordsPerBatch - 1) / c.WordsPerBatch
}

// CurrentBatch returns the batch a learner with the given learned-word
// count is working on. Crossing into a new batch happens only once a full
// batch is learned, so the function points one past the completed-batch
// count, clamped to the last batch of the level.
func (c Config) CurrentBatch(learnedWordsInLevel int) int {
	if learnedWordsInLevel <= 0 {
		return 1
	}
	completed := learnedWordsInLevel / c.WordsPerBatch
	batch := completed + 1
	if max := c.BatchesPerLevel(); batch > max {
		return max
	}
	return batch
}

// CanProgressLevel reports whether the learner may advance to the next
// level. This is a hard 100% gate, deliberately stricter than the 80%
// per-batch gate: level-up unlocks new content generation.
func (c Config) CanProgressLevel(learnedWordsInLevel int) bool {
	return learnedWordsInLevel >= c.WordsPerLevel
}

// CanAdvanceBatch reports whether the learner may move to the next batch
// within a level. Requires MinCompletionFraction of a full batch to be
// learned, and the batch itself to contain at least that many words so a
// short, still-filling batch cannot be advanced out of.
func (c Config) CanAdvanceBatch(wordsInCurrentBatch, learnedInBatch int) bool {
	threshold := int(float64(c.WordsPerBatch) * c.MinCompletionFraction)
	return learnedInBatch >= threshold && wordsInCurrentBatch >= threshold
}

// BatchIntegrity reports whether a batch is exactly full and ready for
// display.
type BatchIntegrity struct {
	IsValid     bool
	WordsNeeded int
}

// ValidateBatchIntegrity checks that a batch holds exactly WordsPerBatch
// words. Overfull batches are invalid too, but need zero words.
func (c Config) ValidateBatchIntegrity(actualWordCount int) BatchIntegrity {
	needed := c.WordsPerBatch - actualWordCount
	if needed < 0 {
		needed = 0
	}
	return BatchIntegrity{
		IsValid:     actualWordCount == c.WordsPerBatch,
		WordsNeeded: needed,
	}
}

package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Learning.validate(); err != nil {
		return fmt.Errorf("learning: %w", err)
	}
	if err := c.Cache.validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if c.Generator.MaxTokens <= 0 {
		return fmt.Errorf("generator: max_tokens must be > 0 (got %d)", c.Generator.MaxTokens)
	}
	if c.Generator.Timeout <= 0 {
		return fmt.Errorf("generator: timeout must be > 0 (got %v)", c.Generator.Timeout)
	}
	if c.Server.GenerateRateLimit <= 0 {
		return fmt.Errorf("server: generate_rate_limit must be > 0 (got %d)", c.Server.GenerateRateLimit)
	}
	return nil
}

func (l LearningConfig) validate() error {
	if l.WordsPerBatch <= 0 {
		return fmt.Errorf("words_per_batch must be > 0 (got %d)", l.WordsPerBatch)
	}
	if l.WordsPerLevel < l.WordsPerBatch {
		return fmt.Errorf("words_per_level must be >= words_per_batch (got %d < %d)",
			l.WordsPerLevel, l.WordsPerBatch)
	}
	if l.MinCompletionFraction <= 0 || l.MinCompletionFraction > 1 {
		return fmt.Errorf("min_completion_fraction must be in (0, 1] (got %v)", l.MinCompletionFraction)
	}
	return nil
}

func (c CacheConfig) validate() error {
	if c.MaxEntries <= 0 {
		return fmt.Errorf("max_entries must be > 0 (got %d)", c.MaxEntries)
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("cleanup_interval must be > 0 (got %v)", c.CleanupInterval)
	}
	return nil
}

package vocab

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

// ListBatch returns the words of one batch, read through the cache.
func (s *Service) ListBatch(ctx context.Context, userID uuid.UUID, level domain.Level, batch int) ([]domain.Word, error) {
	if words, ok := s.cache.GetBatchWords(userID, level, batch); ok {
		return words, nil
	}

	words, err := s.words.ListBatch(ctx, userID, level, batch)
	if err != nil {
		return nil, fmt.Errorf("list batch: %w", err)
	}

	s.cache.SetBatchWords(userID, level, batch, words)
	return words, nil
}

// GetBatchStats returns totals for one batch, read through the cache, plus
// the exact-fullness integrity check.
func (s *Service) GetBatchStats(ctx context.Context, userID uuid.UUID, level domain.Level, batch int) (domain.BatchStats, error) {
	if stats, ok := s.cache.GetBatchStats(userID, level, batch); ok {
		return stats, nil
	}

	stats, err := s.words.BatchStats(ctx, userID, level, batch)
	if err != nil {
		return domain.BatchStats{}, fmt.Errorf("batch stats: %w", err)
	}

	s.cache.SetBatchStats(userID, level, batch, stats)
	return stats, nil
}

// GetBatchStatsByLevel returns totals for every non-empty batch at a level
// in one persistence round trip, for consumers that render a batch list.
func (s *Service) GetBatchStatsByLevel(ctx context.Context, userID uuid.UUID, level domain.Level) ([]domain.BatchStats, error) {
	stats, err := s.words.BatchStatsByLevel(ctx, userID, level)
	if err != nil {
		return nil, fmt.Errorf("batch stats by level: %w", err)
	}

	for _, st := range stats {
		s.cache.SetBatchStats(userID, level, st.BatchNumber, st)
	}

	return stats, nil
}

// GetWord returns a single word owned by the learner.
func (s *Service) GetWord(ctx context.Context, userID, wordID uuid.UUID) (domain.Word, error) {
	word, err := s.words.GetByID(ctx, userID, wordID)
	if err != nil {
		return domain.Word{}, fmt.Errorf("get word: %w", err)
	}
	return word, nil
}

// ListUserWords returns a learner's words at one level. The unfiltered form
// is read through the cache; filtered listings always hit persistence.
func (s *Service) ListUserWords(ctx context.Context, userID uuid.UUID, level domain.Level, f domain.WordFilter) ([]domain.Word, error) {
	unfiltered := f.BatchNumber == nil && f.Learned == nil && f.Search == nil &&
		f.SortBy == "" && f.Offset == 0 && f.Limit == 0

	if unfiltered {
		if words, ok := s.cache.GetUserWords(userID, level); ok {
			return words, nil
		}
	}

	f.Level = &level
	words, err := s.words.List(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("list user words: %w", err)
	}

	if unfiltered {
		s.cache.SetUserWords(userID, level, words)
	}

	return words, nil
}

// GetWordCount returns the number of words a learner has at a level, read
// through the cache. Display use only; gating decisions count directly
// against persistence.
func (s *Service) GetWordCount(ctx context.Context, userID uuid.UUID, level domain.Level) (int, error) {
	if count, ok := s.cache.GetWordCount(userID, level); ok {
		return count, nil
	}

	count, err := s.words.CountByLevel(ctx, userID, level)
	if err != nil {
		return 0, fmt.Errorf("word count: %w", err)
	}

	s.cache.SetWordCount(userID, level, count)
	return count, nil
}

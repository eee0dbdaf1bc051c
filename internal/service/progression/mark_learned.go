package progression

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

// MarkWordLearned flags a word as learned.
//
// A word that does not exist or belongs to another learner yields
// domain.ErrNotFound. Marking an already-learned word again is a no-op.
// The cache entries touching this word's batch are invalidated only after
// the write is durable; the streak side effect is best effort.
func (s *Service) MarkWordLearned(ctx context.Context, userID, wordID uuid.UUID) (domain.Word, error) {
	word, err := s.words.GetByID(ctx, userID, wordID)
	if err != nil {
		return domain.Word{}, fmt.Errorf("mark word learned: %w", err)
	}

	if !word.Learned {
		if err := s.words.SetLearned(ctx, userID, wordID, true); err != nil {
			return domain.Word{}, fmt.Errorf("mark word learned: %w", err)
		}
		word.Learned = true
	}

	if _, err := s.RecordActivity(ctx, userID); err != nil {
		s.log.Warn("streak update failed",
			slog.String("user_id", userID.String()),
			slog.Any("error", err),
		)
	}

	s.cache.InvalidateBatch(userID, word.Level, word.BatchNumber)

	return word, nil
}

// SetWordStatus updates the learned flag in either direction. The normal
// product flow only ever sets it, but the operation is symmetric.
func (s *Service) SetWordStatus(ctx context.Context, userID, wordID uuid.UUID, learned bool) (domain.Word, error) {
	if learned {
		return s.MarkWordLearned(ctx, userID, wordID)
	}

	word, err := s.words.GetByID(ctx, userID, wordID)
	if err != nil {
		return domain.Word{}, fmt.Errorf("set word status: %w", err)
	}

	if word.Learned {
		if err := s.words.SetLearned(ctx, userID, wordID, false); err != nil {
			return domain.Word{}, fmt.Errorf("set word status: %w", err)
		}
		word.Learned = false
	}

	s.cache.InvalidateBatch(userID, word.Level, word.BatchNumber)

	return word, nil
}

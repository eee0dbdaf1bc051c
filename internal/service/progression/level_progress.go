package progression

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

// GetLevelProgress reports the learner's standing for every level in the
// fixed sequence. Counts are read directly from persistence so that the
// CanProgress flag never reflects a stale cached aggregate.
func (s *Service) GetLevelProgress(ctx context.Context, userID uuid.UUID) ([]domain.LevelProgress, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("level progress: %w", err)
	}

	currentIdx := user.CurrentLevel.Index()

	progress := make([]domain.LevelProgress, 0, len(domain.Levels))
	for i, level := range domain.Levels {
		total, err := s.words.CountByLevel(ctx, userID, level)
		if err != nil {
			return nil, fmt.Errorf("level progress: count words at %s: %w", level, err)
		}
		learned, err := s.words.CountLearnedByLevel(ctx, userID, level)
		if err != nil {
			return nil, fmt.Errorf("level progress: count learned at %s: %w", level, err)
		}

		var percentage float64
		if total > 0 {
			percentage = float64(learned) / float64(total) * 100
		}

		progress = append(progress, domain.LevelProgress{
			Level:        level,
			Learned:      learned,
			Total:        total,
			Percentage:   percentage,
			CanProgress:  s.policy.CanProgressLevel(learned),
			IsCompleted:  learned >= s.policy.WordsPerLevel,
			IsCurrent:    i == currentIdx,
			IsAccessible: i < 2 || i <= currentIdx,
		})
	}

	return progress, nil
}

// GetCurrentBatch derives the learner's working batch from the learned
// count at the current level, clamped to the last batch of the level.
func (s *Service) GetCurrentBatch(ctx context.Context, userID uuid.UUID) (int, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("current batch: %w", err)
	}

	learned, err := s.words.CountLearnedByLevel(ctx, userID, user.CurrentLevel)
	if err != nil {
		return 0, fmt.Errorf("current batch: count learned: %w", err)
	}

	return s.policy.CurrentBatch(learned), nil
}

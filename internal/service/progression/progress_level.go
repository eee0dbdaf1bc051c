package progression

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

// ProgressLevel moves a learner to the next proficiency level.
//
// Fails with domain.ErrNoNextLevel at the ceiling level and with a
// domain.InsufficientProgressError when the full level quota is not yet
// learned. The learned count is read directly from persistence, never from
// cache, because the check gates an irreversible transition.
func (s *Service) ProgressLevel(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("progress level: %w", err)
	}

	next, ok := domain.NextLevel(user.CurrentLevel)
	if !ok {
		return nil, fmt.Errorf("progress level from %s: %w", user.CurrentLevel, domain.ErrNoNextLevel)
	}

	learned, err := s.words.CountLearnedByLevel(ctx, userID, user.CurrentLevel)
	if err != nil {
		return nil, fmt.Errorf("progress level: count learned: %w", err)
	}

	if !s.policy.CanProgressLevel(learned) {
		return nil, &domain.InsufficientProgressError{
			Level:    user.CurrentLevel,
			Required: s.policy.WordsPerLevel,
			Current:  learned,
		}
	}

	if err := s.users.UpdateProgression(ctx, userID, next, 1); err != nil {
		return nil, fmt.Errorf("progress level: persist transition: %w", err)
	}

	// Persistence is the source of truth; drop every cached view of this
	// learner only after the transition is durable.
	s.cache.InvalidateUser(userID)

	s.log.Info("level progression",
		slog.String("user_id", userID.String()),
		slog.String("from", user.CurrentLevel.String()),
		slog.String("to", next.String()),
	)

	user.CurrentLevel = next
	user.CurrentBatch = 1
	return user, nil
}

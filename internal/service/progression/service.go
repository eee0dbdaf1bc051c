// Package progression implements level and batch transitions, learned-word
// state changes and streak accounting for a learner.
package progression

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
	"github.com/dkotenko/lexibatch-backend/internal/service/progression/policy"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type wordRepo interface {
	GetByID(ctx context.Context, userID, wordID uuid.UUID) (domain.Word, error)
	SetLearned(ctx context.Context, userID, wordID uuid.UUID, learned bool) error
	CountByLevel(ctx context.Context, userID uuid.UUID, level domain.Level) (int, error)
	CountLearnedByLevel(ctx context.Context, userID uuid.UUID, level domain.Level) (int, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProgression(ctx context.Context, id uuid.UUID, level domain.Level, batch int) error
	UpdateStreak(ctx context.Context, id uuid.UUID, current, longest int, lastActive time.Time) error
}

type activityLog interface {
	RecordDay(ctx context.Context, userID uuid.UUID, day time.Time) (bool, error)
}

type wordCache interface {
	InvalidateBatch(userID uuid.UUID, level domain.Level, batch int)
	InvalidateUser(userID uuid.UUID)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the progression business logic.
type Service struct {
	words    wordRepo
	users    userRepo
	activity activityLog
	cache    wordCache
	policy   policy.Config
	log      *slog.Logger

	// now is swappable in tests.
	now func() time.Time
}

// NewService creates a new progression service.
func NewService(
	log *slog.Logger,
	words wordRepo,
	users userRepo,
	activity activityLog,
	cache wordCache,
	cfg policy.Config,
) *Service {
	return &Service{
		words:    words,
		users:    users,
		activity: activity,
		cache:    cache,
		policy:   cfg,
		log:      log.With("service", "progression"),
		now:      time.Now,
	}
}

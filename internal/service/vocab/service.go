// Package vocab implements vocabulary ingestion and batch-scoped reads:
// generation of new word batches, duplicate filtering and cached listing.
package vocab

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
	"github.com/dkotenko/lexibatch-backend/internal/service/progression/policy"
	"github.com/dkotenko/lexibatch-backend/pkg/fetchcache"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type wordRepo interface {
	GetByID(ctx context.Context, userID, wordID uuid.UUID) (domain.Word, error)
	List(ctx context.Context, userID uuid.UUID, f domain.WordFilter) ([]domain.Word, error)
	ListBatch(ctx context.Context, userID uuid.UUID, level domain.Level, batch int) ([]domain.Word, error)
	ListNormalized(ctx context.Context, userID uuid.UUID, level domain.Level) ([]string, error)
	CountByLevel(ctx context.Context, userID uuid.UUID, level domain.Level) (int, error)
	BatchStats(ctx context.Context, userID uuid.UUID, level domain.Level, batch int) (domain.BatchStats, error)
	BatchStatsByLevel(ctx context.Context, userID uuid.UUID, level domain.Level) ([]domain.BatchStats, error)
	Create(ctx context.Context, words []domain.Word) error
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type wordGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) ([]domain.WordPair, error)
}

type wordCache interface {
	GetBatchWords(userID uuid.UUID, level domain.Level, batch int) ([]domain.Word, bool)
	SetBatchWords(userID uuid.UUID, level domain.Level, batch int, words []domain.Word)
	GetBatchStats(userID uuid.UUID, level domain.Level, batch int) (domain.BatchStats, bool)
	SetBatchStats(userID uuid.UUID, level domain.Level, batch int, stats domain.BatchStats)
	GetUserWords(userID uuid.UUID, level domain.Level) ([]domain.Word, bool)
	SetUserWords(userID uuid.UUID, level domain.Level, words []domain.Word)
	GetWordCount(userID uuid.UUID, level domain.Level) (int, bool)
	SetWordCount(userID uuid.UUID, level domain.Level, count int)
	GetGeneratedPool(userID uuid.UUID, level domain.Level) ([]domain.WordPair, bool)
	SetGeneratedPool(userID uuid.UUID, level domain.Level, pool []domain.WordPair)
	InvalidateUser(userID uuid.UUID)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the vocabulary business logic.
type Service struct {
	words  wordRepo
	users  userRepo
	gen    wordGenerator
	cache  wordCache
	tx     txManager
	policy policy.Config
	log    *slog.Logger

	// requests coalesces concurrent identical generator calls and keeps a
	// paid generator response around briefly so a retry after a transient
	// persistence failure does not trigger another round trip.
	requests *fetchcache.Cache

	// genTimeout bounds one generator round trip. A slow call surfaces
	// fetchcache.ErrTimeout while the call itself keeps running; its
	// result is discarded.
	genTimeout time.Duration

	// now is swappable in tests.
	now func() time.Time
}

// NewService creates a new vocabulary service.
func NewService(
	log *slog.Logger,
	words wordRepo,
	users userRepo,
	gen wordGenerator,
	cache wordCache,
	tx txManager,
	cfg policy.Config,
	genTimeout time.Duration,
) *Service {
	return &Service{
		words:      words,
		users:      users,
		gen:        gen,
		cache:      cache,
		tx:         tx,
		policy:     cfg,
		log:        log.With("service", "vocab"),
		requests:   fetchcache.New(fetchcache.Options{MaxEntries: 512}),
		genTimeout: genTimeout,
		now:        time.Now,
	}
}

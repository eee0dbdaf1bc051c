package progression

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
	"github.com/dkotenko/lexibatch-backend/internal/service/progression/policy"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockWordRepo struct {
	GetByIDFunc             func(ctx context.Context, userID, wordID uuid.UUID) (domain.Word, error)
	SetLearnedFunc          func(ctx context.Context, userID, wordID uuid.UUID, learned bool) error
	CountByLevelFunc        func(ctx context.Context, userID uuid.UUID, level domain.Level) (int, error)
	CountLearnedByLevelFunc func(ctx context.Context, userID uuid.UUID, level domain.Level) (int, error)
}

func (m *mockWordRepo) GetByID(ctx context.Context, userID, wordID uuid.UUID) (domain.Word, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, wordID)
	}
	return domain.Word{}, domain.ErrNotFound
}

func (m *mockWordRepo) SetLearned(ctx context.Context, userID, wordID uuid.UUID, learned bool) error {
	if m.SetLearnedFunc != nil {
		return m.SetLearnedFunc(ctx, userID, wordID, learned)
	}
	return nil
}

func (m *mockWordRepo) CountByLevel(ctx context.Context, userID uuid.UUID, level domain.Level) (int, error) {
	if m.CountByLevelFunc != nil {
		return m.CountByLevelFunc(ctx, userID, level)
	}
	return 0, nil
}

func (m *mockWordRepo) CountLearnedByLevel(ctx context.Context, userID uuid.UUID, level domain.Level) (int, error) {
	if m.CountLearnedByLevelFunc != nil {
		return m.CountLearnedByLevelFunc(ctx, userID, level)
	}
	return 0, nil
}

type mockUserRepo struct {
	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProgressionFunc func(ctx context.Context, id uuid.UUID, level domain.Level, batch int) error
	UpdateStreakFunc      func(ctx context.Context, id uuid.UUID, current, longest int, lastActive time.Time) error
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) UpdateProgression(ctx context.Context, id uuid.UUID, level domain.Level, batch int) error {
	if m.UpdateProgressionFunc != nil {
		return m.UpdateProgressionFunc(ctx, id, level, batch)
	}
	return nil
}

func (m *mockUserRepo) UpdateStreak(ctx context.Context, id uuid.UUID, current, longest int, lastActive time.Time) error {
	if m.UpdateStreakFunc != nil {
		return m.UpdateStreakFunc(ctx, id, current, longest, lastActive)
	}
	return nil
}

type mockActivityLog struct {
	RecordDayFunc func(ctx context.Context, userID uuid.UUID, day time.Time) (bool, error)
}

func (m *mockActivityLog) RecordDay(ctx context.Context, userID uuid.UUID, day time.Time) (bool, error) {
	if m.RecordDayFunc != nil {
		return m.RecordDayFunc(ctx, userID, day)
	}
	return true, nil
}

// mockCache records invalidation calls.
type mockCache struct {
	mu            sync.Mutex
	batchCalls    []string
	userCalls     int
	invalidatedAt []string // "batch" or "user", in call order
}

func (m *mockCache) InvalidateBatch(userID uuid.UUID, level domain.Level, batch int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls = append(m.batchCalls, level.String())
	m.invalidatedAt = append(m.invalidatedAt, "batch")
}

func (m *mockCache) InvalidateUser(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userCalls++
	m.invalidatedAt = append(m.invalidatedAt, "user")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(words *mockWordRepo, users *mockUserRepo, activity *mockActivityLog, cache *mockCache) *Service {
	return NewService(discardLogger(), words, users, activity, cache, policy.Default())
}

// ===========================================================================
// ProgressLevel
// ===========================================================================

func TestProgressLevel_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	var persisted bool

	users := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, CurrentLevel: domain.LevelA1, CurrentBatch: 20}, nil
		},
		UpdateProgressionFunc: func(ctx context.Context, id uuid.UUID, level domain.Level, batch int) error {
			persisted = true
			assert.Equal(t, domain.LevelA2, level)
			assert.Equal(t, 1, batch)
			return nil
		},
	}
	words := &mockWordRepo{
		CountLearnedByLevelFunc: func(ctx context.Context, _ uuid.UUID, level domain.Level) (int, error) {
			return 1000, nil
		},
	}
	cache := &mockCache{}

	svc := newTestService(words, users, &mockActivityLog{}, cache)

	got, err := svc.ProgressLevel(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, persisted)
	assert.Equal(t, domain.LevelA2, got.CurrentLevel)
	assert.Equal(t, 1, got.CurrentBatch)
	assert.Equal(t, 1, cache.userCalls, "all learner-scoped cache entries must be dropped")
}

func TestProgressLevel_InsufficientProgress(t *testing.T) {
	t.Parallel()

	users := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, CurrentLevel: domain.LevelA1}, nil
		},
	}
	words := &mockWordRepo{
		CountLearnedByLevelFunc: func(ctx context.Context, _ uuid.UUID, _ domain.Level) (int, error) {
			return 980, nil
		},
	}
	cache := &mockCache{}

	svc := newTestService(words, users, &mockActivityLog{}, cache)

	_, err := svc.ProgressLevel(context.Background(), uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrInsufficientProgress)

	var ipErr *domain.InsufficientProgressError
	require.ErrorAs(t, err, &ipErr)
	assert.Equal(t, 1000, ipErr.Required)
	assert.Equal(t, 980, ipErr.Current)
	assert.Equal(t, 20, ipErr.Remaining())

	assert.Zero(t, cache.userCalls, "failed progression must not invalidate caches")
}

func TestProgressLevel_Ceiling(t *testing.T) {
	t.Parallel()

	users := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, CurrentLevel: domain.LevelC2}, nil
		},
	}

	svc := newTestService(&mockWordRepo{}, users, &mockActivityLog{}, &mockCache{})

	_, err := svc.ProgressLevel(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNoNextLevel)
}

func TestProgressLevel_PersistFailureSkipsInvalidation(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	users := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, CurrentLevel: domain.LevelA1}, nil
		},
		UpdateProgressionFunc: func(ctx context.Context, id uuid.UUID, level domain.Level, batch int) error {
			return boom
		},
	}
	words := &mockWordRepo{
		CountLearnedByLevelFunc: func(ctx context.Context, _ uuid.UUID, _ domain.Level) (int, error) {
			return 1000, nil
		},
	}
	cache := &mockCache{}

	svc := newTestService(words, users, &mockActivityLog{}, cache)

	_, err := svc.ProgressLevel(context.Background(), uuid.New())
	require.ErrorIs(t, err, boom)
	assert.Zero(t, cache.userCalls)
}

// ===========================================================================
// MarkWordLearned
// ===========================================================================

func TestMarkWordLearned_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	wordID := uuid.New()

	var setCalls, persistedBeforeInvalidate bool
	cache := &mockCache{}

	words := &mockWordRepo{
		GetByIDFunc: func(ctx context.Context, uid, wid uuid.UUID) (domain.Word, error) {
			return domain.Word{ID: wid, UserID: uid, Level: domain.LevelA1, BatchNumber: 19}, nil
		},
		SetLearnedFunc: func(ctx context.Context, uid, wid uuid.UUID, learned bool) error {
			setCalls = true
			cache.mu.Lock()
			persistedBeforeInvalidate = len(cache.invalidatedAt) == 0
			cache.mu.Unlock()
			return nil
		},
	}
	users := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id}, nil
		},
	}

	svc := newTestService(words, users, &mockActivityLog{}, cache)

	got, err := svc.MarkWordLearned(context.Background(), userID, wordID)
	require.NoError(t, err)
	assert.True(t, got.Learned)
	assert.True(t, setCalls)
	assert.True(t, persistedBeforeInvalidate, "write must be durable before invalidation")
	assert.Equal(t, []string{"A1"}, cache.batchCalls)
}

func TestMarkWordLearned_Idempotent(t *testing.T) {
	t.Parallel()

	words := &mockWordRepo{
		GetByIDFunc: func(ctx context.Context, uid, wid uuid.UUID) (domain.Word, error) {
			return domain.Word{ID: wid, UserID: uid, Learned: true, Level: domain.LevelA1, BatchNumber: 2}, nil
		},
		SetLearnedFunc: func(ctx context.Context, uid, wid uuid.UUID, learned bool) error {
			t.Fatal("already-learned word must not be rewritten")
			return nil
		},
	}
	users := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id}, nil
		},
	}

	svc := newTestService(words, users, &mockActivityLog{}, &mockCache{})

	got, err := svc.MarkWordLearned(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, got.Learned)
}

func TestMarkWordLearned_NotOwned(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockWordRepo{}, &mockUserRepo{}, &mockActivityLog{}, &mockCache{})

	_, err := svc.MarkWordLearned(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkWordLearned_StreakFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	words := &mockWordRepo{
		GetByIDFunc: func(ctx context.Context, uid, wid uuid.UUID) (domain.Word, error) {
			return domain.Word{ID: wid, UserID: uid, Level: domain.LevelB1, BatchNumber: 4}, nil
		},
	}
	activity := &mockActivityLog{
		RecordDayFunc: func(ctx context.Context, userID uuid.UUID, day time.Time) (bool, error) {
			return false, errors.New("activity store down")
		},
	}
	cache := &mockCache{}

	svc := newTestService(words, &mockUserRepo{}, activity, cache)

	got, err := svc.MarkWordLearned(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, got.Learned)
	assert.Len(t, cache.batchCalls, 1)
}

func TestSetWordStatus_Unlearn(t *testing.T) {
	t.Parallel()

	var setTo *bool
	words := &mockWordRepo{
		GetByIDFunc: func(ctx context.Context, uid, wid uuid.UUID) (domain.Word, error) {
			return domain.Word{ID: wid, UserID: uid, Learned: true, Level: domain.LevelA2, BatchNumber: 6}, nil
		},
		SetLearnedFunc: func(ctx context.Context, uid, wid uuid.UUID, learned bool) error {
			setTo = &learned
			return nil
		},
	}

	svc := newTestService(words, &mockUserRepo{}, &mockActivityLog{}, &mockCache{})

	got, err := svc.SetWordStatus(context.Background(), uuid.New(), uuid.New(), false)
	require.NoError(t, err)
	assert.False(t, got.Learned)
	require.NotNil(t, setTo)
	assert.False(t, *setTo)
}

// ===========================================================================
// Streaks
// ===========================================================================

func TestRecordActivity_ConsecutiveDay(t *testing.T) {
	t.Parallel()

	yesterday := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	users := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, CurrentStreak: 4, LongestStreak: 9, LastActiveDate: &yesterday}, nil
		},
	}

	svc := newTestService(&mockWordRepo{}, users, &mockActivityLog{}, &mockCache{})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC) }

	info, err := svc.RecordActivity(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 5, info.CurrentStreak)
	assert.Equal(t, 9, info.LongestStreak)
}

func TestRecordActivity_GapResetsStreak(t *testing.T) {
	t.Parallel()

	lastWeek := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	users := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, CurrentStreak: 14, LongestStreak: 14, LastActiveDate: &lastWeek}, nil
		},
	}

	svc := newTestService(&mockWordRepo{}, users, &mockActivityLog{}, &mockCache{})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }

	info, err := svc.RecordActivity(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, info.CurrentStreak)
	assert.Equal(t, 14, info.LongestStreak, "longest streak survives a reset")
}

func TestRecordActivity_SameDayIsReadOnly(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	users := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, CurrentStreak: 7, LongestStreak: 12, LastActiveDate: &today}, nil
		},
		UpdateStreakFunc: func(ctx context.Context, id uuid.UUID, current, longest int, lastActive time.Time) error {
			t.Fatal("same-day activity must not rewrite streak counters")
			return nil
		},
	}
	activity := &mockActivityLog{
		RecordDayFunc: func(ctx context.Context, userID uuid.UUID, day time.Time) (bool, error) {
			return false, nil
		},
	}

	svc := newTestService(&mockWordRepo{}, users, activity, &mockCache{})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC) }

	info, err := svc.RecordActivity(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 7, info.CurrentStreak)
	assert.Equal(t, 12, info.LongestStreak)
}

// ===========================================================================
// Level progress reporting
// ===========================================================================

func TestGetLevelProgress_Accessibility(t *testing.T) {
	t.Parallel()

	users := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, CurrentLevel: domain.LevelB1}, nil
		},
	}
	words := &mockWordRepo{
		CountByLevelFunc: func(ctx context.Context, _ uuid.UUID, level domain.Level) (int, error) {
			if level == domain.LevelA1 {
				return 1000, nil
			}
			return 200, nil
		},
		CountLearnedByLevelFunc: func(ctx context.Context, _ uuid.UUID, level domain.Level) (int, error) {
			if level == domain.LevelA1 {
				return 1000, nil
			}
			return 50, nil
		},
	}

	svc := newTestService(words, users, &mockActivityLog{}, &mockCache{})

	progress, err := svc.GetLevelProgress(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, progress, len(domain.Levels))

	byLevel := map[domain.Level]domain.LevelProgress{}
	for _, p := range progress {
		byLevel[p.Level] = p
	}

	assert.True(t, byLevel[domain.LevelA1].IsAccessible, "lowest levels always accessible")
	assert.True(t, byLevel[domain.LevelA1].IsCompleted)
	assert.True(t, byLevel[domain.LevelA1].CanProgress)
	assert.True(t, byLevel[domain.LevelA2].IsAccessible, "passed level stays viewable")
	assert.True(t, byLevel[domain.LevelB1].IsAccessible)
	assert.True(t, byLevel[domain.LevelB1].IsCurrent)
	assert.False(t, byLevel[domain.LevelB2].IsAccessible)
	assert.False(t, byLevel[domain.LevelC2].IsAccessible)
	assert.InDelta(t, 100.0, byLevel[domain.LevelA1].Percentage, 0.001)
	assert.InDelta(t, 25.0, byLevel[domain.LevelB1].Percentage, 0.001)
}

// ===========================================================================
// End-to-end progression scenario
// ===========================================================================

// A learner at A1 with 950 learned words marks 30 more words learned one at
// a time, then 20 more, then levels up.
func TestProgressionScenario(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	learned := 950
	level := domain.LevelA1

	words := &mockWordRepo{
		GetByIDFunc: func(ctx context.Context, uid, wid uuid.UUID) (domain.Word, error) {
			return domain.Word{ID: wid, UserID: uid, Level: level, BatchNumber: 20}, nil
		},
		SetLearnedFunc: func(ctx context.Context, uid, wid uuid.UUID, l bool) error {
			learned++
			return nil
		},
		CountLearnedByLevelFunc: func(ctx context.Context, _ uuid.UUID, _ domain.Level) (int, error) {
			return learned, nil
		},
	}
	users := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, CurrentLevel: level, CurrentBatch: 20}, nil
		},
		UpdateProgressionFunc: func(ctx context.Context, id uuid.UUID, next domain.Level, batch int) error {
			level = next
			return nil
		},
	}
	cache := &mockCache{}
	cfg := policy.Default()

	svc := newTestService(words, users, &mockActivityLog{}, cache)

	for i := 0; i < 30; i++ {
		_, err := svc.MarkWordLearned(context.Background(), userID, uuid.New())
		require.NoError(t, err)
	}

	require.Equal(t, 980, learned)
	assert.Equal(t, 20, cfg.CurrentBatch(980), "batch unchanged at 980 learned")

	_, err := svc.ProgressLevel(context.Background(), userID)
	require.ErrorIs(t, err, domain.ErrInsufficientProgress)

	for i := 0; i < 20; i++ {
		_, err := svc.MarkWordLearned(context.Background(), userID, uuid.New())
		require.NoError(t, err)
	}
	require.Equal(t, 1000, learned)

	got, err := svc.ProgressLevel(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, domain.LevelA2, got.CurrentLevel)
	assert.Equal(t, domain.LevelA2, level, "transition persisted")
	assert.Equal(t, 1, cache.userCalls, "level-up drops all learner-scoped cache entries")
}

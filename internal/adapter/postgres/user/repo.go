// Package user implements the learner repository using PostgreSQL.
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dkotenko/lexibatch-backend/internal/adapter/postgres"
	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

const userColumns = `id, email, name, language, native_language,
       current_level, current_batch, current_streak, longest_streak,
       last_active_date, created_at, updated_at`

// Repo provides learner persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new user repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const getByIDSQL = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1`

const getByEmailSQL = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1`

const createSQL = `
INSERT INTO users (id, email, name, language, native_language,
                   current_level, current_batch, current_streak, longest_streak,
                   last_active_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + userColumns

const updateProgressionSQL = `
UPDATE users
SET current_level = $1, current_batch = $2, updated_at = $3
WHERE id = $4`

const updateStreakSQL = `
UPDATE users
SET current_streak = $1, longest_streak = $2, last_active_date = $3, updated_at = $4
WHERE id = $5`

// GetByID returns a learner by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	return &u, nil
}

// GetByEmail returns a learner by email address.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, getByEmailSQL, email))
	if err != nil {
		return nil, postgres.MapError(err, "user", uuid.Nil)
	}

	return &u, nil
}

// Create inserts a new learner and returns the persisted domain.User.
// A duplicate email results in domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	row := q.QueryRow(ctx, createSQL,
		u.ID, u.Email, u.Name, u.Language, u.NativeLanguage,
		u.CurrentLevel, u.CurrentBatch, u.CurrentStreak, u.LongestStreak,
		u.LastActiveDate, u.CreatedAt, u.UpdatedAt,
	)

	created, err := scanUser(row)
	if err != nil {
		return nil, postgres.MapError(err, "user", u.ID)
	}

	return &created, nil
}

// UpdateProgression moves a learner to a new level and batch position.
// Returns domain.ErrNotFound if the learner does not exist.
func (r *Repo) UpdateProgression(ctx context.Context, id uuid.UUID, level domain.Level, batch int) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, updateProgressionSQL, level, batch, time.Now().UTC(), id)
	if err != nil {
		return postgres.MapError(err, "user", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdateStreak stores the recomputed streak counters and activity date.
// Returns domain.ErrNotFound if the learner does not exist.
func (r *Repo) UpdateStreak(ctx context.Context, id uuid.UUID, current, longest int, lastActive time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, updateStreakSQL, current, longest, lastActive, time.Now().UTC(), id)
	if err != nil {
		return postgres.MapError(err, "user", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// scanUser scans a single learner row.
func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Language, &u.NativeLanguage,
		&u.CurrentLevel, &u.CurrentBatch, &u.CurrentStreak, &u.LongestStreak,
		&u.LastActiveDate, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

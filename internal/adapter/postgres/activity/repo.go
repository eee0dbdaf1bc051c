// Package activity implements the daily activity log using PostgreSQL.
// One row per learner per calendar day backs streak accounting.
package activity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/adapter/postgres"
)

// Repo provides activity log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new activity repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const recordDaySQL = `
INSERT INTO activity_log (user_id, activity_date)
VALUES ($1, $2)
ON CONFLICT (user_id, activity_date) DO NOTHING`

// RecordDay marks the given calendar day as active for the learner.
// Returns true when this is the first activity recorded for that day,
// false when the day was already marked.
func (r *Repo) RecordDay(ctx context.Context, userID uuid.UUID, day time.Time) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, recordDaySQL, userID, day)
	if err != nil {
		return false, postgres.MapError(err, "activity", userID)
	}

	return tag.RowsAffected() > 0, nil
}

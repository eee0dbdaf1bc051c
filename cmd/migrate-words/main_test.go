package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

// fakeBackfillRepo serves words still matching the missing-normalization
// predicate: updated words leave the set, skipped and failed ones stay.
type fakeBackfillRepo struct {
	missing    []domain.Word
	updateErrs map[uuid.UUID]error
	listCalls  int
}

func (r *fakeBackfillRepo) ListMissingNormalized(_ context.Context, limit int) ([]domain.Word, error) {
	r.listCalls++
	if len(r.missing) < limit {
		limit = len(r.missing)
	}
	return append([]domain.Word(nil), r.missing[:limit]...), nil
}

func (r *fakeBackfillRepo) UpdateNormalized(_ context.Context, id uuid.UUID, _ string) error {
	if err := r.updateErrs[id]; err != nil {
		return err
	}
	for i, w := range r.missing {
		if w.ID == id {
			r.missing = append(r.missing[:i], r.missing[i+1:]...)
			break
		}
	}
	return nil
}

func testWord(original string) domain.Word {
	return domain.Word{ID: uuid.New(), Original: original, Language: domain.Language("es")}
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBackfill_UpdatesAllPages(t *testing.T) {
	repo := &fakeBackfillRepo{
		missing: []domain.Word{testWord("casa"), testWord("perro"), testWord("gato")},
	}

	res, err := backfill(context.Background(), repo, silentLogger(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, res.updated)
	assert.Zero(t, res.skipped)
	assert.Empty(t, repo.missing)
}

func TestBackfill_SkipsEmptyNormalization(t *testing.T) {
	// "  " normalizes to "", which must never be written back: the row
	// would stay selectable and the loop would never terminate.
	repo := &fakeBackfillRepo{
		missing: []domain.Word{testWord("  "), testWord("casa")},
	}

	res, err := backfill(context.Background(), repo, silentLogger(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, res.updated)
	assert.Equal(t, 1, res.skipped)
	assert.LessOrEqual(t, repo.listCalls, 3, "skipped rows must not spin the loop")
}

func TestBackfill_OnlySkippableRowsFinishes(t *testing.T) {
	repo := &fakeBackfillRepo{
		missing: []domain.Word{testWord(""), testWord("   ")},
	}

	res, err := backfill(context.Background(), repo, silentLogger(), 10)
	require.NoError(t, err)
	assert.Zero(t, res.updated)
	assert.Equal(t, 2, res.skipped)
}

func TestBackfill_AllFailuresAborts(t *testing.T) {
	w := testWord("casa")
	repo := &fakeBackfillRepo{
		missing:    []domain.Word{w},
		updateErrs: map[uuid.UUID]error{w.ID: errors.New("deadlock")},
	}

	res, err := backfill(context.Background(), repo, silentLogger(), 10)
	require.ErrorIs(t, err, errNoProgress)
	assert.Equal(t, 1, res.failed)
}

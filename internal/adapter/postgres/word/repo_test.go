package word_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"

	"github.com/dkotenko/lexibatch-backend/internal/adapter/postgres/word"
	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

var wordCols = []string{"id", "user_id", "original", "translation", "text_normalized",
	"language", "native_language", "level", "batch_number", "learned", "created_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestGetByID(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := word.New(mock)

	userID := uuid.New()
	wordID := uuid.New()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM words\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs(wordID, userID).
		WillReturnRows(pgxmock.NewRows(wordCols).AddRow(
			wordID, userID, "perro", "dog", "perro",
			"es", "en", "A1", 3, false, created,
		))

	got, err := repo.GetByID(context.Background(), userID, wordID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Original != "perro" || got.Level != domain.LevelA1 || got.BatchNumber != 3 {
		t.Fatalf("unexpected word: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := word.New(mock)

	userID := uuid.New()
	wordID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM words`).
		WithArgs(wordID, userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), userID, wordID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want domain.ErrNotFound", err)
	}
}

func TestSetLearned(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := word.New(mock)

	userID := uuid.New()
	wordID := uuid.New()

	mock.ExpectExec(`UPDATE words SET learned = \$1`).
		WithArgs(true, wordID, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.SetLearned(context.Background(), userID, wordID, true); err != nil {
		t.Fatalf("SetLearned: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetLearned_OtherUsersWord(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := word.New(mock)

	mock.ExpectExec(`UPDATE words SET learned = \$1`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetLearned(context.Background(), uuid.New(), uuid.New(), true)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want domain.ErrNotFound", err)
	}
}

func TestCounts(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := word.New(mock)

	userID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM words\s+WHERE user_id = \$1 AND level = \$2$`).
		WithArgs(userID, domain.LevelA2).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(120))
	mock.ExpectQuery(`SELECT count\(\*\) FROM words\s+WHERE user_id = \$1 AND level = \$2 AND learned`).
		WithArgs(userID, domain.LevelA2).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(45))

	total, err := repo.CountByLevel(context.Background(), userID, domain.LevelA2)
	if err != nil || total != 120 {
		t.Fatalf("CountByLevel = %d, %v; want 120, nil", total, err)
	}
	learned, err := repo.CountLearnedByLevel(context.Background(), userID, domain.LevelA2)
	if err != nil || learned != 45 {
		t.Fatalf("CountLearnedByLevel = %d, %v; want 45, nil", learned, err)
	}
}

func TestBatchStats_EmptyBatchHasZeroCounts(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := word.New(mock)

	userID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\), count\(\*\) FILTER \(WHERE learned\)`).
		WithArgs(userID, domain.LevelB1, 7).
		WillReturnRows(pgxmock.NewRows([]string{"total", "learned"}).AddRow(0, 0))

	got, err := repo.BatchStats(context.Background(), userID, domain.LevelB1, 7)
	if err != nil {
		t.Fatalf("BatchStats: %v", err)
	}
	if got.BatchNumber != 7 || got.Total != 0 || got.Learned != 0 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestBatchStatsByLevel(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := word.New(mock)

	userID := uuid.New()

	mock.ExpectQuery(`SELECT batch_number, count\(\*\), count\(\*\) FILTER \(WHERE learned\)`).
		WithArgs(userID, domain.LevelA1).
		WillReturnRows(pgxmock.NewRows([]string{"batch_number", "total", "learned"}).
			AddRow(1, 50, 50).
			AddRow(2, 50, 12).
			AddRow(3, 30, 0))

	got, err := repo.BatchStatsByLevel(context.Background(), userID, domain.LevelA1)
	if err != nil {
		t.Fatalf("BatchStatsByLevel: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	if got[1].BatchNumber != 2 || got[1].Learned != 12 {
		t.Fatalf("unexpected row: %+v", got[1])
	}
}

func TestList_AppliesFilterAndDefaults(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := word.New(mock)

	userID := uuid.New()
	level := domain.LevelA1
	learned := false

	mock.ExpectQuery(`SELECT (.+) FROM words WHERE user_id = \$1 AND level = \$2 AND learned = \$3 ORDER BY created_at ASC, id ASC LIMIT 50 OFFSET 0`).
		WithArgs(userID, level, learned).
		WillReturnRows(pgxmock.NewRows(wordCols))

	got, err := repo.List(context.Background(), userID, domain.WordFilter{
		Level:   &level,
		Learned: &learned,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want non-nil empty slice, got %#v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListNormalized(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := word.New(mock)

	userID := uuid.New()

	mock.ExpectQuery(`SELECT text_normalized\s+FROM words`).
		WithArgs(userID, domain.LevelA1).
		WillReturnRows(pgxmock.NewRows([]string{"text_normalized"}).
			AddRow("perro").
			AddRow("gato"))

	got, err := repo.ListNormalized(context.Background(), userID, domain.LevelA1)
	if err != nil {
		t.Fatalf("ListNormalized: %v", err)
	}
	if len(got) != 2 || got[0] != "perro" {
		t.Fatalf("unexpected result: %v", got)
	}
}

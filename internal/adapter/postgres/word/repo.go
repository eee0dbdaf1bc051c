// Package word implements the word repository using PostgreSQL.
// List queries are built with squirrel; counts and batch aggregates
// use raw SQL.
package word

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dkotenko/lexibatch-backend/internal/adapter/postgres"
	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

const wordColumns = `id, user_id, original, translation, text_normalized,
       language, native_language, level, batch_number, learned, created_at`

// Repo provides word persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new word repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Raw SQL for counts and batch aggregates
// ---------------------------------------------------------------------------

const getByIDSQL = `
SELECT ` + wordColumns + `
FROM words
WHERE id = $1 AND user_id = $2`

const listBatchSQL = `
SELECT ` + wordColumns + `
FROM words
WHERE user_id = $1 AND level = $2 AND batch_number = $3
ORDER BY created_at ASC, id ASC`

const listNormalizedSQL = `
SELECT text_normalized
FROM words
WHERE user_id = $1 AND level = $2
ORDER BY created_at ASC`

const countByLevelSQL = `
SELECT count(*) FROM words
WHERE user_id = $1 AND level = $2`

const countLearnedByLevelSQL = `
SELECT count(*) FROM words
WHERE user_id = $1 AND level = $2 AND learned`

const batchStatsSQL = `
SELECT count(*), count(*) FILTER (WHERE learned)
FROM words
WHERE user_id = $1 AND level = $2 AND batch_number = $3`

const batchStatsByLevelSQL = `
SELECT batch_number, count(*), count(*) FILTER (WHERE learned)
FROM words
WHERE user_id = $1 AND level = $2
GROUP BY batch_number
ORDER BY batch_number ASC`

const setLearnedSQL = `
UPDATE words SET learned = $1
WHERE id = $2 AND user_id = $3`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a word by primary key filtered by user_id.
func (r *Repo) GetByID(ctx context.Context, userID, wordID uuid.UUID) (domain.Word, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	row := q.QueryRow(ctx, getByIDSQL, wordID, userID)
	w, err := scanWord(row)
	if err != nil {
		return domain.Word{}, postgres.MapError(err, "word", wordID)
	}

	return w, nil
}

// List returns a learner's words matching the filter, with defaults and
// clamps applied. An empty result is a non-nil empty slice.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, f domain.WordFilter) ([]domain.Word, error) {
	f = normalizeFilter(f)

	builder := sq.Select("id", "user_id", "original", "translation", "text_normalized",
		"language", "native_language", "level", "batch_number", "learned", "created_at").
		From("words").
		Where(sq.Eq{"user_id": userID}).
		PlaceholderFormat(sq.Dollar)

	if f.Level != nil {
		builder = builder.Where(sq.Eq{"level": *f.Level})
	}
	if f.BatchNumber != nil {
		builder = builder.Where(sq.Eq{"batch_number": *f.BatchNumber})
	}
	if f.Learned != nil {
		builder = builder.Where(sq.Eq{"learned": *f.Learned})
	}
	if f.Search != nil && *f.Search != "" {
		builder = builder.Where(sq.ILike{"text_normalized": "%" + *f.Search + "%"})
	}

	builder = builder.
		OrderBy(sortColumn(f)+" "+f.SortOrder, "id ASC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list words query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	defer rows.Close()

	words, err := scanWords(rows)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}

	return words, nil
}

// ListBatch returns the words of a single batch in creation order.
func (r *Repo) ListBatch(ctx context.Context, userID uuid.UUID, level domain.Level, batch int) ([]domain.Word, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listBatchSQL, userID, level, batch)
	if err != nil {
		return nil, fmt.Errorf("list batch: %w", err)
	}
	defer rows.Close()

	words, err := scanWords(rows)
	if err != nil {
		return nil, fmt.Errorf("list batch: %w", err)
	}

	return words, nil
}

// ListNormalized returns the normalized text of every word a learner has at
// a level, for duplicate screening against newly generated candidates.
func (r *Repo) ListNormalized(ctx context.Context, userID uuid.UUID, level domain.Level) ([]string, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listNormalizedSQL, userID, level)
	if err != nil {
		return nil, fmt.Errorf("list normalized words: %w", err)
	}
	defer rows.Close()

	texts := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan normalized word: %w", err)
		}
		texts = append(texts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate normalized words: %w", err)
	}

	return texts, nil
}

// CountByLevel returns how many words a learner has at a level.
func (r *Repo) CountByLevel(ctx context.Context, userID uuid.UUID, level domain.Level) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, countByLevelSQL, userID, level).Scan(&count); err != nil {
		return 0, fmt.Errorf("count words by level: %w", err)
	}

	return count, nil
}

// CountLearnedByLevel returns how many learned words a learner has at a level.
func (r *Repo) CountLearnedByLevel(ctx context.Context, userID uuid.UUID, level domain.Level) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, countLearnedByLevelSQL, userID, level).Scan(&count); err != nil {
		return 0, fmt.Errorf("count learned words by level: %w", err)
	}

	return count, nil
}

// BatchStats returns totals for one batch. A batch with no words yields
// zero counts, not ErrNotFound.
func (r *Repo) BatchStats(ctx context.Context, userID uuid.UUID, level domain.Level, batch int) (domain.BatchStats, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	stats := domain.BatchStats{BatchNumber: batch}
	if err := q.QueryRow(ctx, batchStatsSQL, userID, level, batch).Scan(&stats.Total, &stats.Learned); err != nil {
		return domain.BatchStats{}, fmt.Errorf("batch stats: %w", err)
	}

	return stats, nil
}

// BatchStatsByLevel returns totals for every non-empty batch at a level in
// one query, for batching per-batch lookups.
func (r *Repo) BatchStatsByLevel(ctx context.Context, userID uuid.UUID, level domain.Level) ([]domain.BatchStats, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, batchStatsByLevelSQL, userID, level)
	if err != nil {
		return nil, fmt.Errorf("batch stats by level: %w", err)
	}
	defer rows.Close()

	stats := []domain.BatchStats{}
	for rows.Next() {
		var s domain.BatchStats
		if err := rows.Scan(&s.BatchNumber, &s.Total, &s.Learned); err != nil {
			return nil, fmt.Errorf("scan batch stats: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch stats: %w", err)
	}

	return stats, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a set of words in one round trip.
// A duplicate (user_id, level, text_normalized) results in domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, words []domain.Word) error {
	if len(words) == 0 {
		return nil
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	batch := &pgx.Batch{}
	for _, w := range words {
		batch.Queue(
			`INSERT INTO words (id, user_id, original, translation, text_normalized,
			                    language, native_language, level, batch_number, learned, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			w.ID, w.UserID, w.Original, w.Translation, w.TextNormalized,
			w.Language, w.NativeLanguage, w.Level, w.BatchNumber, w.Learned, w.CreatedAt,
		)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for i := range words {
		if _, err := results.Exec(); err != nil {
			return postgres.MapError(err, "word", words[i].ID)
		}
	}

	return nil
}

// SetLearned updates the learned flag on a word. Setting the current value
// again succeeds without effect.
// Returns domain.ErrNotFound if the word does not exist or belongs to another user.
func (r *Repo) SetLearned(ctx context.Context, userID, wordID uuid.UUID, learned bool) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, setLearnedSQL, learned, wordID, userID)
	if err != nil {
		return postgres.MapError(err, "word", wordID)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("word %s: %w", wordID, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Backfill support
// ---------------------------------------------------------------------------

const listMissingNormalizedSQL = `
SELECT ` + wordColumns + `
FROM words
WHERE text_normalized = ''
ORDER BY created_at ASC
LIMIT $1`

const updateNormalizedSQL = `
UPDATE words SET text_normalized = $1
WHERE id = $2`

// ListMissingNormalized returns words whose normalized text has not been
// populated yet, oldest first.
func (r *Repo) ListMissingNormalized(ctx context.Context, limit int) ([]domain.Word, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listMissingNormalizedSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list words missing normalization: %w", err)
	}
	defer rows.Close()

	words, err := scanWords(rows)
	if err != nil {
		return nil, fmt.Errorf("list words missing normalization: %w", err)
	}

	return words, nil
}

// UpdateNormalized stores the normalized text for a word.
func (r *Repo) UpdateNormalized(ctx context.Context, wordID uuid.UUID, normalized string) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, updateNormalizedSQL, normalized, wordID)
	if err != nil {
		return postgres.MapError(err, "word", wordID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("word %s: %w", wordID, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanWord(row pgx.Row) (domain.Word, error) {
	var w domain.Word
	if err := row.Scan(&w.ID, &w.UserID, &w.Original, &w.Translation, &w.TextNormalized,
		&w.Language, &w.NativeLanguage, &w.Level, &w.BatchNumber, &w.Learned, &w.CreatedAt); err != nil {
		return domain.Word{}, err
	}
	return w, nil
}

func scanWords(rows pgx.Rows) ([]domain.Word, error) {
	var words []domain.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if words == nil {
		words = []domain.Word{}
	}

	return words, nil
}

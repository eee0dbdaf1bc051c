// Command migrate-words backfills the normalized text column for words
// created before normalization existed. It processes words in pages and
// is safe to re-run: already-backfilled words are never selected again,
// so an interrupted run resumes where it stopped.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/adapter/postgres"
	"github.com/dkotenko/lexibatch-backend/internal/adapter/postgres/word"
	"github.com/dkotenko/lexibatch-backend/internal/app"
	"github.com/dkotenko/lexibatch-backend/internal/config"
	"github.com/dkotenko/lexibatch-backend/internal/domain"
	"github.com/dkotenko/lexibatch-backend/internal/service/vocab/match"
)

const pageSize = 500

var errNoProgress = errors.New("no progress")

type backfillRepo interface {
	ListMissingNormalized(ctx context.Context, limit int) ([]domain.Word, error)
	UpdateNormalized(ctx context.Context, id uuid.UUID, normalized string) error
}

type backfillResult struct {
	updated int
	skipped int
	failed  int
}

// backfill normalizes unprocessed words page by page. Words whose
// normalization is empty are skipped, not written: an empty value would
// keep the row selectable and the loop would re-read it forever. A page
// that updates nothing but still contains failures aborts, because failed
// rows also stay selectable.
func backfill(ctx context.Context, repo backfillRepo, logger *slog.Logger, limit int) (backfillResult, error) {
	var res backfillResult

	for {
		words, err := repo.ListMissingNormalized(ctx, limit)
		if err != nil {
			return res, err
		}
		if len(words) == 0 {
			return res, nil
		}

		pageUpdated, pageFailed := 0, 0
		for _, w := range words {
			normalized := match.NormalizeForLanguage(w.Original, w.Language)
			if normalized == "" {
				logger.Warn("word normalizes to empty, skipping",
					slog.String("word_id", w.ID.String()),
					slog.String("original", w.Original),
				)
				res.skipped++
				continue
			}

			if err := repo.UpdateNormalized(ctx, w.ID, normalized); err != nil {
				// One bad row must not abort the whole backfill.
				logger.Warn("update word",
					slog.String("word_id", w.ID.String()),
					slog.String("error", err.Error()),
				)
				res.failed++
				pageFailed++
				continue
			}
			pageUpdated++
		}
		res.updated += pageUpdated

		if pageUpdated == 0 {
			if pageFailed > 0 {
				return res, errNoProgress
			}
			// Only unsalvageable empty-normalization rows remain.
			return res, nil
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	res, err := backfill(ctx, word.New(pool), logger, pageSize)
	if err != nil {
		logger.Error("backfill aborted",
			slog.String("error", err.Error()),
			slog.Int("updated", res.updated),
			slog.Int("skipped", res.skipped),
			slog.Int("failed", res.failed),
		)
		os.Exit(1)
	}

	logger.Info("backfill completed",
		slog.Int("updated", res.updated),
		slog.Int("skipped", res.skipped),
		slog.Int("failed", res.failed),
	)
}

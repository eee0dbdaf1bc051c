package rest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

const (
	loaderMaxBatch = 100
	loaderWait     = 2 * time.Millisecond
)

// batchStatsSource is the slice of vocabService the loader needs.
type batchStatsSource interface {
	GetBatchStatsByLevel(ctx context.Context, userID uuid.UUID, level domain.Level) ([]domain.BatchStats, error)
}

// newBatchStatsLoader returns a per-request loader that coalesces stats
// lookups for individual batch numbers into one aggregate query for the
// whole level. Batch slots with no words yet resolve to zero counts.
func newBatchStatsLoader(src batchStatsSource, userID uuid.UUID, level domain.Level) *dataloader.Loader[int, domain.BatchStats] {
	batchFn := func(ctx context.Context, keys []int) []*dataloader.Result[domain.BatchStats] {
		stats, err := src.GetBatchStatsByLevel(ctx, userID, level)
		if err != nil {
			results := make([]*dataloader.Result[domain.BatchStats], len(keys))
			for i := range results {
				results[i] = &dataloader.Result[domain.BatchStats]{Error: err}
			}
			return results
		}

		byNumber := make(map[int]domain.BatchStats, len(stats))
		for _, st := range stats {
			byNumber[st.BatchNumber] = st
		}

		results := make([]*dataloader.Result[domain.BatchStats], len(keys))
		for i, key := range keys {
			if st, ok := byNumber[key]; ok {
				results[i] = &dataloader.Result[domain.BatchStats]{Data: st}
			} else {
				results[i] = &dataloader.Result[domain.BatchStats]{Data: domain.BatchStats{BatchNumber: key}}
			}
		}
		return results
	}

	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[int, domain.BatchStats](loaderWait),
		dataloader.WithBatchCapacity[int, domain.BatchStats](loaderMaxBatch),
	)
}

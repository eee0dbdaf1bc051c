package progression

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

// RecordActivity marks today as an active day and recomputes the learner's
// consecutive-day streak. Repeated calls on the same day return the current
// counters without rewriting them.
func (s *Service) RecordActivity(ctx context.Context, userID uuid.UUID) (domain.StreakInfo, error) {
	today := dateOnly(s.now().UTC())

	first, err := s.activity.RecordDay(ctx, userID, today)
	if err != nil {
		return domain.StreakInfo{}, fmt.Errorf("record activity: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.StreakInfo{}, fmt.Errorf("record activity: %w", err)
	}

	if !first {
		return domain.StreakInfo{
			CurrentStreak:  user.CurrentStreak,
			LongestStreak:  user.LongestStreak,
			LastActiveDate: today,
		}, nil
	}

	current := 1
	if user.LastActiveDate != nil && dateOnly(*user.LastActiveDate).Equal(today.AddDate(0, 0, -1)) {
		current = user.CurrentStreak + 1
	}

	longest := user.LongestStreak
	if current > longest {
		longest = current
	}

	if err := s.users.UpdateStreak(ctx, userID, current, longest, today); err != nil {
		return domain.StreakInfo{}, fmt.Errorf("record activity: persist streak: %w", err)
	}

	return domain.StreakInfo{
		CurrentStreak:  current,
		LongestStreak:  longest,
		LastActiveDate: today,
	}, nil
}

// dateOnly truncates a timestamp to midnight UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

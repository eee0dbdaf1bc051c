package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a learner.
type User struct {
	ID             uuid.UUID
	Email          string
	Name           string
	Language       Language
	NativeLanguage Language
	CurrentLevel   Level
	CurrentBatch   int
	CurrentStreak  int
	LongestStreak  int
	LastActiveDate *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StreakInfo is the result of recording a day's learning activity.
type StreakInfo struct {
	CurrentStreak  int
	LongestStreak  int
	LastActiveDate time.Time
}

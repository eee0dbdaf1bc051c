package domain

import (
	"time"

	"github.com/google/uuid"
)

// Language is a lowercase language tag such as "es", "de", "fr".
type Language string

func (l Language) String() string { return string(l) }

// Word is one vocabulary item owned by exactly one learner.
// BatchNumber is assigned once at creation and never changes.
type Word struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Original       string
	Translation    string
	TextNormalized string
	Language       Language
	NativeLanguage Language
	Level          Level
	BatchNumber    int
	Learned        bool
	CreatedAt      time.Time
}

// WordPair is a single candidate produced by the content generator,
// before deduplication and persistence.
type WordPair struct {
	Original    string `json:"original"`
	Translation string `json:"translation"`
}

// BatchStats describes how full and how far along a single batch is.
type BatchStats struct {
	BatchNumber int
	Total       int
	Learned     int
}

package domain

// Level is a CEFR proficiency tier gating content difficulty.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// Levels is the fixed ordered sequence of proficiency tiers, easiest first.
var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

func (l Level) String() string { return string(l) }

func (l Level) IsValid() bool {
	switch l {
	case LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2:
		return true
	}
	return false
}

// Index returns the zero-based position of the level in the ordered
// sequence, or -1 for an unknown level.
func (l Level) Index() int {
	for i, lvl := range Levels {
		if lvl == l {
			return i
		}
	}
	return -1
}

// NextLevel returns the level following l, or false at the ceiling (C2)
// and for unknown levels.
func NextLevel(l Level) (Level, bool) {
	i := l.Index()
	if i < 0 || i+1 >= len(Levels) {
		return "", false
	}
	return Levels[i+1], true
}

// PreviousLevel returns the level preceding l, or false at the floor (A1)
// and for unknown levels.
func PreviousLevel(l Level) (Level, bool) {
	i := l.Index()
	if i <= 0 {
		return "", false
	}
	return Levels[i-1], true
}

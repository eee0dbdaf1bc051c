package domain

// LevelProgress reports a learner's standing within one proficiency level.
// Accessibility follows the product rule: the two lowest levels are always
// viewable, the current level is viewable, and already-passed levels stay
// viewable.
type LevelProgress struct {
	Level        Level
	Learned      int
	Total        int
	Percentage   float64
	CanProgress  bool
	IsCompleted  bool
	IsCurrent    bool
	IsAccessible bool
}

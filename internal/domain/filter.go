package domain

// WordFilter defines parameters for listing and paginating a learner's words.
type WordFilter struct {
	// Level restricts results to a single proficiency level.
	Level *Level

	// BatchNumber restricts results to a single batch within the level.
	BatchNumber *int

	// Learned filters words that are (true) or are not (false) learned.
	Learned *bool

	// Search matches a substring of the normalized text.
	// nil or empty string means no text filter.
	Search *string

	// SortBy determines the sort column: "original", "created_at".
	// Default: "created_at".
	SortBy string

	// SortOrder: "ASC" or "DESC". Default: "ASC".
	SortOrder string

	// Limit is the maximum number of words to return. Default: 50, max: 200.
	Limit int

	// Offset is the number of words to skip.
	Offset int
}

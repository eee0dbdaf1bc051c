package word

import (
	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 200

	sortByOriginal  = "original"
	sortByCreatedAt = "created_at"

	sortOrderASC  = "ASC"
	sortOrderDESC = "DESC"
)

// normalizeFilter applies defaults and clamps values.
func normalizeFilter(f domain.WordFilter) domain.WordFilter {
	switch f.SortBy {
	case sortByOriginal, sortByCreatedAt:
		// valid
	default:
		f.SortBy = sortByCreatedAt
	}

	switch f.SortOrder {
	case sortOrderASC, sortOrderDESC:
		// valid
	default:
		f.SortOrder = sortOrderASC
	}

	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	if f.Offset < 0 {
		f.Offset = 0
	}

	return f
}

// sortColumn returns the SQL column name for the filter's SortBy value.
func sortColumn(f domain.WordFilter) string {
	if f.SortBy == sortByOriginal {
		return "original"
	}
	return "created_at"
}

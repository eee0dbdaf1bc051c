package rest

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

// filterFromQuery parses the optional listing filters. The level itself is
// passed separately because it is required.
func filterFromQuery(q url.Values) (domain.WordFilter, error) {
	var f domain.WordFilter

	if v := q.Get("batch"); v != "" {
		batch, err := strconv.Atoi(v)
		if err != nil || batch < 1 {
			return f, fmt.Errorf("invalid batch %q", v)
		}
		f.BatchNumber = &batch
	}

	if v := q.Get("learned"); v != "" {
		learned, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("invalid learned %q", v)
		}
		f.Learned = &learned
	}

	if v := q.Get("search"); v != "" {
		f.Search = &v
	}

	f.SortBy = q.Get("sortBy")
	f.SortOrder = q.Get("sortOrder")

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return f, fmt.Errorf("invalid limit %q", v)
		}
		f.Limit = limit
	}

	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return f, fmt.Errorf("invalid offset %q", v)
		}
		f.Offset = offset
	}

	return f, nil
}

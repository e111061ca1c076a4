package shared

import (
	"net/http"
	"strconv"
)

type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit/offset query parameters. Unparseable or
// out-of-range values fall back rather than erroring; the limit is clamped
// to maxLimit so a caller cannot page the whole table in one request.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	page := Pagination{
		Limit:  queryInt(r, "limit", defaultLimit),
		Offset: queryInt(r, "offset", 0),
	}
	if page.Limit <= 0 {
		page.Limit = defaultLimit
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

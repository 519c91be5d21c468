package shared

import "net/http"

// Pagination is a limit/offset window. Limit 0 means no limit.
type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset from the query string. Malformed
// values are reported on v; limit is capped at maxLimit when maxLimit > 0.
func ParsePagination(r *http.Request, v *Validator, defaultLimit, maxLimit int) Pagination {
	q := r.URL.Query()
	p := Pagination{
		Limit:  v.Int("limit", q.Get("limit"), 1, defaultLimit),
		Offset: v.Int("offset", q.Get("offset"), 0, 0),
	}
	if maxLimit > 0 && (p.Limit == 0 || p.Limit > maxLimit) {
		p.Limit = maxLimit
	}
	return p
}

// Window returns the slice of items selected by p.
func Window[T any](items []T, p Pagination) []T {
	if p.Offset >= len(items) {
		return items[:0]
	}
	items = items[p.Offset:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}

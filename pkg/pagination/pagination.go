package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Page is a validated limit/offset pair parsed from query parameters.
type Page struct {
	Limit  int
	Offset int
}

// FromRequest reads ?limit= and ?offset= with defaults, clamping the
// limit to MaxLimit. Malformed or negative values fall back to the
// defaults rather than erroring.
func FromRequest(r *http.Request) Page {
	p := Page{Limit: DefaultLimit}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Limit = v
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Offset = v
		}
	}

	return p
}

// Meta describes the page that was returned, echoed back to clients.
type Meta struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// MetaFor builds the response metadata for a page and total row count.
func MetaFor(p Page, total int64) Meta {
	return Meta{Limit: p.Limit, Offset: p.Offset, Total: total}
}

// Package listquery drives paginated, searchable, filterable listings.
//
// A Controller holds the page, search text and filters of one listing and
// issues exactly one fetch whenever any of them changes. Changing the
// search text or a filter always returns to page 1. Responses are tagged
// with a generation number so that a slow response to an older query never
// overwrites the result of a newer one.
package listquery

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/uecsr/portal/internal/models"
)

// Fetcher loads one page of a listing.
type Fetcher[T any] func(ctx context.Context, q Query) (models.Page[T], error)

// Query is the combination of values that determines which slice of a
// listing is fetched.
type Query struct {
	Page   int
	Limit  int
	Search string
	// Filters holds categorical filters by query parameter name. Values
	// meaning "all" are kept here but never sent.
	Filters map[string]string
}

// IsAll reports whether a filter value selects every category.
func IsAll(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "all", "todas", "todos":
		return true
	}
	return false
}

// Values encodes q as URL query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	for k, val := range q.Filters {
		if IsAll(val) {
			continue
		}
		v.Set(k, val)
	}
	return v
}

// Filter returns the active value of filter name, or "" when it selects
// everything.
func (q Query) Filter(name string) string {
	if val := q.Filters[name]; !IsAll(val) {
		return val
	}
	return ""
}

func (q Query) clone() Query {
	out := q
	out.Filters = make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		out.Filters[k] = v
	}
	return out
}

// String renders q in a stable order, for logs.
func (q Query) String() string {
	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("page=" + strconv.Itoa(q.Page))
	if q.Search != "" {
		b.WriteString(" search=" + strconv.Quote(q.Search))
	}
	for _, k := range keys {
		b.WriteString(" " + k + "=" + q.Filters[k])
	}
	return b.String()
}

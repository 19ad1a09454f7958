package listing

import (
	"net/url"
	"strconv"
	"strings"
)

// AllCategories is the filter value the category select uses for "no filter".
const AllCategories = "all"

// MaxLimit caps the page size a caller may ask for.
const MaxLimit = 100

// Query is the state of a list screen: which page, how big, and the filters.
type Query struct {
	Page     int
	Limit    int
	Search   string
	Category string

	// DefaultLimit is the page size of the screen; a Limit equal to it is
	// left out of links.
	DefaultLimit int
}

// FromValues reads page/limit/search/category from a query string. Malformed
// numbers fall back to defaults rather than failing the page.
func FromValues(v url.Values, defaultLimit int) Query {
	q := Query{
		Search:   v.Get("search"),
		Category: v.Get("category"),
	}
	if p, err := strconv.Atoi(v.Get("page")); err == nil {
		q.Page = p
	}
	if l, err := strconv.Atoi(v.Get("limit")); err == nil {
		q.Limit = l
	}
	return q.Normalize(defaultLimit)
}

func (q Query) Normalize(defaultLimit int) Query {
	if defaultLimit > MaxLimit {
		defaultLimit = MaxLimit
	}
	q.DefaultLimit = defaultLimit
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.TrimSpace(q.Category)
	if q.Category == AllCategories {
		q.Category = ""
	}
	return q
}

// WithSearch commits a new search term. Any change of filter restarts at page 1.
func (q Query) WithSearch(term string) Query {
	q.Search = strings.TrimSpace(term)
	q.Page = 1
	return q
}

func (q Query) WithCategory(id string) Query {
	q.Category = id
	q.Page = 1
	return q.Normalize(q.defaultLimit())
}

func (q Query) WithPage(page int) Query {
	q.Page = page
	return q.Normalize(q.defaultLimit())
}

func (q Query) defaultLimit() int {
	if q.DefaultLimit > 0 {
		return q.DefaultLimit
	}
	return q.Limit
}

func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Values encodes the query back into link parameters, omitting defaults.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 && q.Limit != q.DefaultLimit {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	return v
}

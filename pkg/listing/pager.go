package listing

import "strconv"

// TotalPages is ceil(total/limit); zero when limit is not positive.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Paginate returns the 1-indexed page of items, at most limit long.
func Paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 || page < 1 {
		return nil
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Pager drives the previous/next controls of a list template.
type Pager struct {
	Path       string
	Query      Query
	Page       int
	TotalPages int
}

func NewPager(path string, q Query, totalPages int) Pager {
	if totalPages < 1 {
		totalPages = 1
	}
	return Pager{Path: path, Query: q, Page: q.Page, TotalPages: totalPages}
}

func (p Pager) HasPrev() bool { return p.Page > 1 }

func (p Pager) HasNext() bool { return p.Page < p.TotalPages }

func (p Pager) PrevURL() string { return p.url(p.Page - 1) }

func (p Pager) NextURL() string { return p.url(p.Page + 1) }

// linkWindow is how many numbered links are shown on each side of the
// current page.
const linkWindow = 2

// Links returns the numbered links around the current page.
func (p Pager) Links() []PageLink {
	first := max(1, p.Page-linkWindow)
	last := min(p.TotalPages, p.Page+linkWindow)
	if last < first {
		return nil
	}
	links := make([]PageLink, 0, last-first+1)
	for i := first; i <= last; i++ {
		links = append(links, PageLink{Number: i, URL: p.url(i), Current: i == p.Page})
	}
	return links
}

func (p Pager) url(page int) string {
	v := p.Query.Values()
	v.Del("page")
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if enc := v.Encode(); enc != "" {
		return p.Path + "?" + enc
	}
	return p.Path
}

package services

import (
	_ "embed"
	"fmt"
	"strings"

	"newsdesk/pkg/listing"
	"newsdesk/pkg/models"

	"github.com/goccy/go-json"
)

//go:embed demo.json
var demoJSON []byte

// Demo is the bundled sample data shown when the API is unreachable and the
// fallback is enabled. Callers must tell the user they are looking at it.
type Demo struct {
	articles   []models.Article
	categories []models.Category
}

func LoadDemo() (*Demo, error) {
	var payload struct {
		Articles   []models.Article  `json:"articles"`
		Categories []models.Category `json:"categories"`
	}
	if err := json.Unmarshal(demoJSON, &payload); err != nil {
		return nil, fmt.Errorf("decode demo data: %w", err)
	}
	return &Demo{articles: payload.Articles, categories: payload.Categories}, nil
}

func (d *Demo) Articles(q listing.Query) *models.Page[models.Article] {
	term := strings.ToLower(q.Search)
	var matched []models.Article
	for _, a := range d.articles {
		if q.Category != "" && a.CategoryKey() != q.Category {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(a.Title), term) {
			continue
		}
		matched = append(matched, a)
	}
	return demoPage(matched, q)
}

func (d *Demo) Categories(q listing.Query) *models.Page[models.Category] {
	term := strings.ToLower(q.Search)
	var matched []models.Category
	for _, c := range d.categories {
		if term != "" && !strings.Contains(strings.ToLower(c.Name), term) {
			continue
		}
		matched = append(matched, c)
	}
	return demoPage(matched, q)
}

func (d *Demo) AllCategories() []models.Category {
	return d.categories
}

// Article returns the sample with id, or the first sample when none matches.
func (d *Demo) Article(id string) (models.Article, bool) {
	for _, a := range d.articles {
		if a.ID == id {
			return a, true
		}
	}
	if len(d.articles) == 0 {
		return models.Article{}, false
	}
	return d.articles[0], true
}

// Related returns up to n samples sharing the category of a, excluding a.
func (d *Demo) Related(a models.Article, n int) []models.Article {
	var out []models.Article
	for _, other := range d.articles {
		if len(out) == n {
			break
		}
		if other.ID != a.ID && other.CategoryKey() == a.CategoryKey() {
			out = append(out, other)
		}
	}
	return out
}

func demoPage[T any](items []T, q listing.Query) *models.Page[T] {
	return &models.Page[T]{
		Data:       listing.Paginate(items, q.Page, q.Limit),
		Total:      len(items),
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: listing.TotalPages(len(items), q.Limit),
	}
}

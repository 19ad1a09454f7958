package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"newsdesk/pkg/listing"
	"newsdesk/pkg/models"
)

const (
	categoryFetchLimit    = 100
	categoryFetchMaxPages = 50
)

type CategoryLister interface {
	ListCategories(ctx context.Context, q listing.Query) (*models.Page[models.Category], error)
}

// CategoryCache holds the full category list used by select boxes and the
// category edit lookup. Entries expire after ttl or on Invalidate.
type CategoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	items    []models.Category
	loadedAt time.Time
	loaded   bool
}

func NewCategoryCache(ttl time.Duration) *CategoryCache {
	return &CategoryCache{ttl: ttl, now: time.Now}
}

func (c *CategoryCache) All(ctx context.Context, lister CategoryLister) ([]models.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && c.now().Sub(c.loadedAt) < c.ttl {
		return c.items, nil
	}

	items, err := fetchAllCategories(ctx, lister)
	if err != nil {
		return nil, err
	}

	c.items = items
	c.loadedAt = c.now()
	c.loaded = true
	return c.items, nil
}

// Find looks a category up by id; the API has no single-category endpoint.
func (c *CategoryCache) Find(ctx context.Context, lister CategoryLister, id string) (models.Category, error) {
	items, err := c.All(ctx, lister)
	if err != nil {
		return models.Category{}, err
	}
	for _, cat := range items {
		if cat.ID == id {
			return cat, nil
		}
	}
	return models.Category{}, fmt.Errorf("category %q: %w", id, models.ErrNotFound)
}

// Name resolves id to a display name, falling back to the id itself.
func (c *CategoryCache) Name(ctx context.Context, lister CategoryLister, id string) string {
	cat, err := c.Find(ctx, lister, id)
	if err != nil {
		return id
	}
	return cat.Name
}

func (c *CategoryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.items = nil
}

func fetchAllCategories(ctx context.Context, lister CategoryLister) ([]models.Category, error) {
	var all []models.Category
	for page := 1; page <= categoryFetchMaxPages; page++ {
		res, err := lister.ListCategories(ctx, listing.Query{Page: page, Limit: categoryFetchLimit})
		if err != nil {
			return nil, err
		}
		all = append(all, res.Data...)
		if page >= res.TotalPages || len(res.Data) == 0 {
			break
		}
	}
	return all, nil
}

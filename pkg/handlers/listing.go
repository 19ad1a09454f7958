package handlers

import (
	"context"
	"errors"
	"net/http"

	"newsdesk/pkg/api"
	"newsdesk/pkg/listing"
	"newsdesk/pkg/models"
	"newsdesk/pkg/session"

	"github.com/gin-gonic/gin"
)

// listView is what a table template needs: the rows, the pager and any
// message explaining why the rows are empty or not live.
type listView[T any] struct {
	Items   []T
	Total   int
	Query   listing.Query
	Pager   listing.Pager
	Demo    bool
	Warning string
	Error   string
}

func newListView[T any](path string, q listing.Query, page *models.Page[T]) listView[T] {
	v := listView[T]{Query: q}
	if page != nil {
		v.Items = page.Data
		v.Total = page.Total
		v.Pager = listing.NewPager(path, q, page.TotalPages)
	} else {
		v.Pager = listing.NewPager(path, q, 1)
	}
	return v
}

const demoWarning = "Server is not responding, showing sample data"

// articlesView turns the outcome of a list call into a view. On failure it
// falls back to the sample data when enabled. It returns false when the
// response was already written because the session was rejected.
//
// Must be called from the request goroutine.
func (h *Handler) articlesView(c *gin.Context, path string, q listing.Query, page *models.Page[models.Article], err error) (listView[models.Article], bool) {
	if err == nil {
		return newListView(path, q, page), true
	}
	if h.rejected(c, err) {
		return listView[models.Article]{}, false
	}
	h.logFailure(c, "failed to list articles", err)
	if h.demo != nil {
		v := newListView(path, q, h.demo.Articles(q))
		v.Demo, v.Warning = true, demoWarning
		return v, true
	}
	v := newListView[models.Article](path, q, nil)
	v.Error = api.Message(err, "Failed to load articles")
	return v, true
}

func (h *Handler) categoriesView(c *gin.Context, path string, q listing.Query, page *models.Page[models.Category], err error) (listView[models.Category], bool) {
	if err == nil {
		return newListView(path, q, page), true
	}
	if h.rejected(c, err) {
		return listView[models.Category]{}, false
	}
	h.logFailure(c, "failed to list categories", err)
	if h.demo != nil {
		v := newListView(path, q, h.demo.Categories(q))
		v.Demo, v.Warning = true, demoWarning
		return v, true
	}
	v := newListView[models.Category](path, q, nil)
	v.Error = api.Message(err, "Failed to load categories")
	return v, true
}

// categoryOptions returns every category for select boxes. A failure never
// blocks the page; safe to call from a fan-out goroutine.
func (h *Handler) categoryOptions(ctx context.Context, c *gin.Context) []models.Category {
	cats, err := h.categories.All(ctx, h.client(c))
	if err == nil {
		return cats
	}
	h.logFailure(c, "failed to load categories", err)
	if h.demo != nil {
		return h.demo.AllCategories()
	}
	return nil
}

// debounced holds a live search request for the debounce window. Only the
// newest request per session and list goes on; the others answer 204.
func (h *Handler) debounced(c *gin.Context, list string) bool {
	key := session.Current(c).ID
	if key == "" {
		key = c.ClientIP()
	}
	fresh, err := h.debouncer.Wait(c.Request.Context(), key+":"+list)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			h.logFailure(c, "search debounce", err)
		}
		c.AbortWithStatus(http.StatusNoContent)
		return false
	}
	if !fresh {
		c.AbortWithStatus(http.StatusNoContent)
		return false
	}
	return true
}

func showListNotices(c *gin.Context, warning, errMsg string) {
	if warning != "" {
		notice(c, session.FlashWarning, warning)
	}
	if errMsg != "" {
		notice(c, session.FlashError, errMsg)
	}
}

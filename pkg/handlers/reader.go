package handlers

import (
	"context"
	"net/http"

	"newsdesk/pkg/api"
	"newsdesk/pkg/listing"
	"newsdesk/pkg/models"
	"newsdesk/pkg/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	readerHomePath     = "/userpage"
	readerArticlesPath = "/userpage/article"

	latestArticles  = 6
	relatedArticles = 3
)

func (h *Handler) ReaderHome(c *gin.Context) {
	q := listing.Query{Page: 1, Limit: latestArticles}

	var (
		page *models.Page[models.Article]
		cats []models.Category
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		page, err = h.client(c).ListArticles(ctx, q)
		return err
	})
	g.Go(func() error {
		cats = h.categoryOptions(ctx, c)
		return nil
	})
	listErr := g.Wait()

	view, ok := h.articlesView(c, readerArticlesPath, q, page, listErr)
	if !ok {
		return
	}
	showListNotices(c, view.Warning, view.Error)
	h.render(c, http.StatusOK, "reader_home.html", gin.H{
		"Title":      "Home",
		"Latest":     view,
		"Categories": cats,
	})
}

func (h *Handler) ReaderArticles(c *gin.Context) {
	q := listing.FromValues(c.Request.URL.Query(), h.opts.ReaderPageSize)

	var (
		page *models.Page[models.Article]
		cats []models.Category
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		page, err = h.client(c).ListArticles(ctx, q)
		return err
	})
	g.Go(func() error {
		cats = h.categoryOptions(ctx, c)
		return nil
	})
	listErr := g.Wait()

	view, ok := h.articlesView(c, readerArticlesPath, q, page, listErr)
	if !ok {
		return
	}
	showListNotices(c, view.Warning, view.Error)
	h.render(c, http.StatusOK, "reader_articles.html", gin.H{
		"Title":      "Articles",
		"List":       view,
		"Categories": cats,
		"RowsURL":    readerArticlesPath + "/rows",
	})
}

func (h *Handler) ReaderRows(c *gin.Context) {
	if !h.debounced(c, "reader-articles") {
		return
	}
	q := listing.FromValues(c.Request.URL.Query(), h.opts.ReaderPageSize)
	q = q.WithSearch(q.Search)

	page, err := h.client(c).ListArticles(c.Request.Context(), q)
	view, ok := h.articlesView(c, readerArticlesPath, q, page, err)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "reader_cards.html", gin.H{"List": view})
}

func (h *Handler) ReaderArticle(c *gin.Context) {
	h.showArticle(c, readerArticlesPath, func(id string) string { return readerArticlesPath + "/" + id })
}

// Preview shows an article to an admin exactly as readers see it.
func (h *Handler) Preview(c *gin.Context) {
	h.showArticle(c, adminArticlesPath, func(id string) string { return "/article/" + id })
}

func (h *Handler) showArticle(c *gin.Context, back string, link func(id string) string) {
	id := c.Param("id")
	ctx := c.Request.Context()

	a, err := h.client(c).GetArticle(ctx, id)
	demo := false
	if err != nil {
		if h.rejected(c, err) {
			return
		}
		if !api.IsNotFound(err) {
			h.logFailure(c, "failed to get article", err)
		}
		if h.demo != nil && !api.IsNotFound(err) {
			if sample, ok := h.demo.Article(id); ok {
				a, demo = &sample, true
				notice(c, session.FlashWarning, "Server is not responding, showing a sample article")
			}
		}
		if a == nil {
			status, msg := http.StatusBadGateway, api.Message(err, "Failed to load article")
			if api.IsNotFound(err) {
				status, msg = http.StatusNotFound, "Article not found"
			}
			h.render(c, status, "error.html", gin.H{"Title": "Article", "Message": msg, "Back": back})
			return
		}
	}

	var related []models.Article
	if demo {
		related = h.demo.Related(*a, relatedArticles)
	} else {
		related = h.related(ctx, c, *a)
	}

	h.render(c, http.StatusOK, "article_view.html", gin.H{
		"Title":        a.Title,
		"Article":      a,
		"CategoryName": h.categoryName(c, *a),
		"Related":      related,
		"Back":         back,
		"Link":         link,
	})
}

// related returns up to three other articles of the same category.
func (h *Handler) related(ctx context.Context, c *gin.Context, a models.Article) []models.Article {
	key := a.CategoryKey()
	if key == "" {
		return nil
	}
	page, err := h.client(c).ListArticles(ctx, listing.Query{Page: 1, Limit: relatedArticles + 1, Category: key})
	if err != nil {
		h.logFailure(c, "failed to load related articles", err)
		if h.demo != nil {
			return h.demo.Related(a, relatedArticles)
		}
		return nil
	}
	out := make([]models.Article, 0, relatedArticles)
	for _, other := range page.Data {
		if other.ID == a.ID {
			continue
		}
		out = append(out, other)
		if len(out) == relatedArticles {
			break
		}
	}
	return out
}

package handlers

import (
	"net/http"

	"newsdesk/pkg/listing"
	"newsdesk/pkg/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type dashboardStats struct {
	Articles   int
	Categories int
	Latest     []models.Article
	Available  bool
}

// Dashboard shows totals and the most recent articles. Both lists are
// fetched at the same time; a failure of either leaves the stats unavailable.
func (h *Handler) Dashboard(c *gin.Context) {
	var (
		articles   *models.Page[models.Article]
		categories *models.Page[models.Category]
	)
	client := h.client(c)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		articles, err = client.ListArticles(ctx, listing.Query{Page: 1, Limit: 5})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = client.ListCategories(ctx, listing.Query{Page: 1, Limit: 1})
		return err
	})

	var stats dashboardStats
	if err := g.Wait(); err != nil {
		if h.rejected(c, err) {
			return
		}
		h.logFailure(c, "failed to load dashboard", err)
		if h.demo != nil {
			a := h.demo.Articles(listing.Query{Page: 1, Limit: 5})
			stats = dashboardStats{Articles: a.Total, Categories: len(h.demo.AllCategories()), Latest: a.Data, Available: true}
			showListNotices(c, demoWarning, "")
		} else {
			showListNotices(c, "", "Dashboard statistics are unavailable")
		}
	} else {
		stats = dashboardStats{
			Articles:   articles.Total,
			Categories: categoryTotal(categories),
			Latest:     articles.Data,
			Available:  true,
		}
	}

	h.render(c, http.StatusOK, "dashboard.html", gin.H{"Title": "Dashboard", "Stats": stats})
}

// categoryTotal reads the total from the category listing; the API reports
// it as totalData, which the client maps to Total.
func categoryTotal(p *models.Page[models.Category]) int {
	if p.Total > 0 {
		return p.Total
	}
	return len(p.Data)
}

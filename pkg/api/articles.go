package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"newsdesk/pkg/listing"
	"newsdesk/pkg/models"
)

type articleList struct {
	Data  []models.Article `json:"data"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ListArticles sends page, limit, title (the search term) and category.
func (c *Client) ListArticles(ctx context.Context, q listing.Query) (*models.Page[models.Article], error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		params.Set("title", q.Search)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}

	var res articleList
	if err := c.do(ctx, http.MethodGet, "/articles", params, nil, &res); err != nil {
		return nil, err
	}
	if res.Page == 0 {
		res.Page = q.Page
	}
	if res.Limit == 0 {
		res.Limit = q.Limit
	}
	return &models.Page[models.Article]{
		Data:       res.Data,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: listing.TotalPages(res.Total, res.Limit),
	}, nil
}

func (c *Client) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	var a models.Article
	if err := c.do(ctx, http.MethodGet, "/articles/"+url.PathEscape(id), nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) CreateArticle(ctx context.Context, in models.ArticleInput) (*models.Article, error) {
	var a models.Article
	if err := c.do(ctx, http.MethodPost, "/articles", nil, in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) UpdateArticle(ctx context.Context, id string, in models.ArticleInput) (*models.Article, error) {
	var a models.Article
	if err := c.do(ctx, http.MethodPut, "/articles/"+url.PathEscape(id), nil, in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/articles/"+url.PathEscape(id), nil, nil, nil)
}

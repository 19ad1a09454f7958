package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"newsdesk/pkg/listing"
	"newsdesk/pkg/models"
)

type categoryList struct {
	Data        []models.Category `json:"data"`
	TotalData   int               `json:"totalData"`
	CurrentPage int               `json:"currentPage"`
	TotalPages  int               `json:"totalPages"`
}

func (c *Client) ListCategories(ctx context.Context, q listing.Query) (*models.Page[models.Category], error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	var res categoryList
	if err := c.do(ctx, http.MethodGet, "/categories", params, nil, &res); err != nil {
		return nil, err
	}
	page := &models.Page[models.Category]{
		Data:       res.Data,
		Total:      res.TotalData,
		Page:       res.CurrentPage,
		Limit:      q.Limit,
		TotalPages: res.TotalPages,
	}
	if page.Page == 0 {
		page.Page = q.Page
	}
	if q.Limit > 0 {
		page.TotalPages = listing.TotalPages(res.TotalData, q.Limit)
	}
	return page, nil
}

func (c *Client) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	var cat models.Category
	if err := c.do(ctx, http.MethodPost, "/categories", nil, in, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in models.CategoryInput) (*models.Category, error) {
	var cat models.Category
	if err := c.do(ctx, http.MethodPut, "/categories/"+url.PathEscape(id), nil, in, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), nil, nil, nil)
}

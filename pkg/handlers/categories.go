package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"newsdesk/pkg/api"
	"newsdesk/pkg/forms"
	"newsdesk/pkg/listing"
	"newsdesk/pkg/models"
	"newsdesk/pkg/session"

	"github.com/gin-gonic/gin"
)

const adminCategoriesPath = "/adminpage/category"

func categoryPath(id string) string {
	return adminCategoriesPath + "/" + url.PathEscape(id)
}

func (h *Handler) Categories(c *gin.Context) {
	q := listing.FromValues(c.Request.URL.Query(), h.opts.PageSize)
	page, err := h.client(c).ListCategories(c.Request.Context(), q)
	view, ok := h.categoriesView(c, adminCategoriesPath, q, page, err)
	if !ok {
		return
	}
	showListNotices(c, view.Warning, view.Error)
	h.render(c, http.StatusOK, "category_list.html", gin.H{
		"Title":   "Categories",
		"List":    view,
		"RowsURL": adminCategoriesPath + "/rows",
	})
}

func (h *Handler) CategoryRows(c *gin.Context) {
	if !h.debounced(c, "admin-categories") {
		return
	}
	q := listing.FromValues(c.Request.URL.Query(), h.opts.PageSize)
	q = q.WithSearch(q.Search)

	page, err := h.client(c).ListCategories(c.Request.Context(), q)
	view, ok := h.categoriesView(c, adminCategoriesPath, q, page, err)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "category_table.html", gin.H{"List": view})
}

func (h *Handler) renderCategoryForm(c *gin.Context, status int, title, action string, form forms.CategoryForm, errs forms.FieldErrors) {
	h.render(c, status, "category_form.html", gin.H{
		"Title":  title,
		"Action": action,
		"Form":   form,
		"Errors": errs,
	})
}

func (h *Handler) bindCategory(c *gin.Context, title, action string) (forms.CategoryForm, bool) {
	var form forms.CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		c.Error(err)
	}
	form.Normalize()
	if errs := h.validator.Check(&form); errs != nil {
		h.renderCategoryForm(c, http.StatusUnprocessableEntity, title, action, form, errs)
		return form, false
	}
	return form, true
}

func (h *Handler) NewCategory(c *gin.Context) {
	h.renderCategoryForm(c, http.StatusOK, "Create Category", adminCategoriesPath+"/create", forms.CategoryForm{}, nil)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	title, action := "Create Category", adminCategoriesPath+"/create"
	form, ok := h.bindCategory(c, title, action)
	if !ok {
		return
	}

	if _, err := h.client(c).CreateCategory(c.Request.Context(), form.Input()); err != nil {
		if h.rejected(c, err) {
			return
		}
		h.logFailure(c, "failed to create category", err)
		notice(c, session.FlashError, api.Message(err, "Failed to create category"))
		h.renderCategoryForm(c, http.StatusBadGateway, title, action, form, nil)
		return
	}
	h.categories.Invalidate()
	h.redirectWithFlash(c, adminCategoriesPath, session.FlashSuccess, "Category created")
}

// EditCategory finds the category through the cached list; the API has no
// endpoint for a single category.
func (h *Handler) EditCategory(c *gin.Context) {
	id := c.Param("id")
	cat, err := h.categories.Find(c.Request.Context(), h.client(c), id)
	if err != nil {
		if h.rejected(c, err) {
			return
		}
		if errors.Is(err, models.ErrNotFound) {
			h.redirectWithFlash(c, adminCategoriesPath, session.FlashError, "Category not found")
			return
		}
		h.logFailure(c, "failed to load category", err)
		h.redirectWithFlash(c, adminCategoriesPath, session.FlashError, api.Message(err, "Failed to load category"))
		return
	}
	h.renderCategoryForm(c, http.StatusOK, "Edit Category", categoryPath(id), forms.CategoryForm{Name: cat.Name}, nil)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id := c.Param("id")
	title, action := "Edit Category", categoryPath(id)
	form, ok := h.bindCategory(c, title, action)
	if !ok {
		return
	}

	if _, err := h.client(c).UpdateCategory(c.Request.Context(), id, form.Input()); err != nil {
		if h.rejected(c, err) {
			return
		}
		h.logFailure(c, "failed to update category", err)
		notice(c, session.FlashError, api.Message(err, "Failed to update category"))
		h.renderCategoryForm(c, http.StatusBadGateway, title, action, form, nil)
		return
	}
	h.categories.Invalidate()
	h.redirectWithFlash(c, adminCategoriesPath, session.FlashSuccess, "Category updated")
}

func (h *Handler) ConfirmDeleteCategory(c *gin.Context) {
	id := c.Param("id")
	h.render(c, http.StatusOK, "confirm_delete.html", gin.H{
		"Title":  "Delete Category",
		"Kind":   "category",
		"ID":     id,
		"Name":   c.Query("name"),
		"Action": categoryPath(id) + "/delete",
		"Cancel": adminCategoriesPath,
	})
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")
	if c.PostForm("confirm") != "yes" {
		h.redirectWithFlash(c, categoryPath(id)+"/delete", session.FlashWarning, "Please confirm the deletion")
		return
	}

	if err := h.client(c).DeleteCategory(c.Request.Context(), id); err != nil {
		if h.rejected(c, err) {
			return
		}
		h.logFailure(c, "failed to delete category", err)
		h.redirectWithFlash(c, adminCategoriesPath, session.FlashError, api.Message(err, "Failed to delete category"))
		return
	}
	h.categories.Invalidate()
	h.log.Info("category deleted", "id", id, "username", session.Current(c).Username)
	h.redirectWithFlash(c, adminCategoriesPath, session.FlashSuccess, "Category deleted")
}

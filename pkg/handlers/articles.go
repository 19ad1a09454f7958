package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"newsdesk/pkg/api"
	"newsdesk/pkg/forms"
	"newsdesk/pkg/listing"
	"newsdesk/pkg/models"
	"newsdesk/pkg/services"
	"newsdesk/pkg/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const adminArticlesPath = "/adminpage/article"

func articlePath(id string) string {
	return adminArticlesPath + "/" + url.PathEscape(id)
}

func (h *Handler) Articles(c *gin.Context) {
	q := listing.FromValues(c.Request.URL.Query(), h.opts.PageSize)

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

	view, ok := h.articlesView(c, adminArticlesPath, q, page, listErr)
	if !ok {
		return
	}
	showListNotices(c, view.Warning, view.Error)
	h.render(c, http.StatusOK, "article_list.html", gin.H{
		"Title":      "Articles",
		"List":       view,
		"Categories": cats,
		"RowsURL":    adminArticlesPath + "/rows",
	})
}

// ArticleRows serves the table fragment for live search.
func (h *Handler) ArticleRows(c *gin.Context) {
	if !h.debounced(c, "admin-articles") {
		return
	}
	q := listing.FromValues(c.Request.URL.Query(), h.opts.PageSize)
	q = q.WithSearch(q.Search)

	page, err := h.client(c).ListArticles(c.Request.Context(), q)
	view, ok := h.articlesView(c, adminArticlesPath, q, page, err)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "article_table.html", gin.H{"List": view})
}

type articleFormPage struct {
	title  string
	action string
	submit string
}

func createArticlePage() articleFormPage {
	return articleFormPage{title: "Create Article", action: adminArticlesPath + "/create", submit: "Create"}
}

func editArticlePage(id string) articleFormPage {
	return articleFormPage{title: "Edit Article", action: articlePath(id) + "/edit", submit: "Save"}
}

func (h *Handler) renderArticleForm(c *gin.Context, status int, p articleFormPage, form forms.ArticleForm, errs forms.FieldErrors) {
	cats := h.categoryOptions(c.Request.Context(), c)
	if cats == nil {
		notice(c, session.FlashWarning, "Categories could not be loaded")
	}
	h.render(c, status, "article_form.html", gin.H{
		"Title":      p.title,
		"Action":     p.action,
		"Submit":     p.submit,
		"Form":       form,
		"Errors":     errs,
		"Categories": cats,
	})
}

func (h *Handler) NewArticle(c *gin.Context) {
	h.renderArticleForm(c, http.StatusOK, createArticlePage(), forms.ArticleForm{}, nil)
}

// bindArticle reads and checks the posted form. Invalid input is re-rendered
// with field messages and reported as false; no API call is made for it.
func (h *Handler) bindArticle(c *gin.Context, p articleFormPage) (forms.ArticleForm, bool) {
	var form forms.ArticleForm
	if err := c.ShouldBind(&form); err != nil {
		c.Error(err)
	}
	form.Normalize()
	if errs := h.validator.Check(&form); errs != nil {
		h.renderArticleForm(c, http.StatusUnprocessableEntity, p, form, errs)
		return form, false
	}
	return form, true
}

func (h *Handler) CreateArticle(c *gin.Context) {
	p := createArticlePage()
	form, ok := h.bindArticle(c, p)
	if !ok {
		return
	}

	if _, err := h.client(c).CreateArticle(c.Request.Context(), form.Input()); err != nil {
		if h.rejected(c, err) {
			return
		}
		h.logFailure(c, "failed to create article", err)
		notice(c, session.FlashError, api.Message(err, "Failed to create article"))
		h.renderArticleForm(c, http.StatusBadGateway, p, form, nil)
		return
	}
	h.redirectWithFlash(c, adminArticlesPath, session.FlashSuccess, "Article created")
}

// fetchArticle loads the article named by the :id parameter. On failure the
// response is written and nil returned.
func (h *Handler) fetchArticle(c *gin.Context) *models.Article {
	id := c.Param("id")
	a, err := h.client(c).GetArticle(c.Request.Context(), id)
	if err == nil {
		return a
	}
	if h.rejected(c, err) {
		return nil
	}
	if api.IsNotFound(err) {
		h.redirectWithFlash(c, adminArticlesPath, session.FlashError, "Article not found")
		return nil
	}
	h.logFailure(c, "failed to get article", err)
	h.redirectWithFlash(c, adminArticlesPath, session.FlashError, api.Message(err, "Failed to load article"))
	return nil
}

func (h *Handler) ArticleDetail(c *gin.Context) {
	a := h.fetchArticle(c)
	if a == nil {
		return
	}
	h.render(c, http.StatusOK, "article_detail.html", gin.H{
		"Title":        a.Title,
		"Article":      a,
		"CategoryName": h.categoryName(c, *a),
		"Formats":      []string{services.FormatYAML, services.FormatTOML, services.FormatJSON},
	})
}

func (h *Handler) categoryName(c *gin.Context, a models.Article) string {
	if a.Category.Name != "" {
		return a.Category.Name
	}
	if key := a.CategoryKey(); key != "" {
		return h.categories.Name(c.Request.Context(), h.client(c), key)
	}
	return ""
}

func (h *Handler) EditArticle(c *gin.Context) {
	a := h.fetchArticle(c)
	if a == nil {
		return
	}
	h.renderArticleForm(c, http.StatusOK, editArticlePage(a.ID), forms.ArticleFormFrom(*a), nil)
}

func (h *Handler) UpdateArticle(c *gin.Context) {
	id := c.Param("id")
	p := editArticlePage(id)
	form, ok := h.bindArticle(c, p)
	if !ok {
		return
	}

	if _, err := h.client(c).UpdateArticle(c.Request.Context(), id, form.Input()); err != nil {
		if h.rejected(c, err) {
			return
		}
		h.logFailure(c, "failed to update article", err)
		notice(c, session.FlashError, api.Message(err, "Failed to update article"))
		h.renderArticleForm(c, http.StatusBadGateway, p, form, nil)
		return
	}
	h.redirectWithFlash(c, adminArticlesPath, session.FlashSuccess, "Article updated")
}

// ConfirmDeleteArticle only asks; it never talks to the API.
func (h *Handler) ConfirmDeleteArticle(c *gin.Context) {
	id := c.Param("id")
	h.render(c, http.StatusOK, "confirm_delete.html", gin.H{
		"Title":  "Delete Article",
		"Kind":   "article",
		"ID":     id,
		"Name":   c.Query("title"),
		"Action": articlePath(id) + "/delete",
		"Cancel": adminArticlesPath,
	})
}

func (h *Handler) DeleteArticle(c *gin.Context) {
	id := c.Param("id")
	if c.PostForm("confirm") != "yes" {
		h.redirectWithFlash(c, articlePath(id)+"/delete", session.FlashWarning, "Please confirm the deletion")
		return
	}

	if err := h.client(c).DeleteArticle(c.Request.Context(), id); err != nil {
		if h.rejected(c, err) {
			return
		}
		h.logFailure(c, "failed to delete article", err)
		h.redirectWithFlash(c, adminArticlesPath, session.FlashError, api.Message(err, "Failed to delete article"))
		return
	}
	h.log.Info("article deleted", "id", id, "username", session.Current(c).Username)
	h.redirectWithFlash(c, adminArticlesPath, session.FlashSuccess, "Article deleted")
}

func (h *Handler) ExportArticle(c *gin.Context) {
	format, err := services.ParseExportFormat(c.Query("format"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	a := h.fetchArticle(c)
	if a == nil {
		return
	}

	out, err := services.ExportArticle(*a, format)
	if err != nil {
		h.logFailure(c, "failed to export article", err)
		c.String(http.StatusInternalServerError, "export failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.ExportFilename(*a)))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", out)
}

func (h *Handler) ImportPage(c *gin.Context) {
	h.render(c, http.StatusOK, "article_import.html", gin.H{"Title": "Import Article"})
}

// Import builds a draft from a URL or a pasted content file and opens it in
// the create form. Nothing is saved until the form is submitted.
func (h *Handler) Import(c *gin.Context) {
	rawURL := strings.TrimSpace(c.PostForm("url"))
	source := c.PostForm("source")
	data := gin.H{"Title": "Import Article", "URL": rawURL, "Source": source}

	var (
		in  models.ArticleInput
		err error
	)
	switch {
	case rawURL != "":
		in, err = h.importer.FromURL(c.Request.Context(), rawURL)
	case strings.TrimSpace(source) != "":
		in, err = h.importer.FromSource(source)
	default:
		data["Errors"] = forms.FieldErrors{"url": "Enter a URL or paste a content file"}
		h.render(c, http.StatusUnprocessableEntity, "article_import.html", data)
		return
	}
	if err != nil {
		h.logFailure(c, "import failed", err)
		msg := "Could not import the article"
		switch {
		case errors.Is(err, models.ErrInvalidInput):
			msg = "Enter a valid http or https URL"
		case errors.Is(err, models.ErrBlockedAddress):
			msg = "That address cannot be imported"
		case errors.Is(err, models.ErrUnsupportedFormat):
			msg = "The pasted text has no front matter"
		}
		notice(c, session.FlashError, msg)
		h.render(c, http.StatusUnprocessableEntity, "article_import.html", data)
		return
	}

	form := forms.ArticleForm{Title: in.Title, CategoryID: in.CategoryID, Content: in.Content, ImageURL: in.ImageURL}
	notice(c, session.FlashSuccess, "Draft imported, review it before saving")
	h.renderArticleForm(c, http.StatusOK, createArticlePage(), form, nil)
}

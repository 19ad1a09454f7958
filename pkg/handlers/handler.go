package handlers

import (
	"context"
	"net/http"
	"time"

	"newsdesk/pkg/api"
	"newsdesk/pkg/forms"
	"newsdesk/pkg/listing"
	"newsdesk/pkg/logger"
	"newsdesk/pkg/models"
	"newsdesk/pkg/services"
	"newsdesk/pkg/session"

	"github.com/gin-gonic/gin"
)

const (
	ctxNotices = "newsdesk.notices"
	ctxProfile = "newsdesk.profile"
)

type Options struct {
	PageSize       int
	ReaderPageSize int
	UploadMaxBytes int64
}

type Deps struct {
	Log        logger.Log
	API        *api.Client
	Validator  *forms.Validator
	Categories *services.CategoryCache
	Debouncer  *listing.Debouncer
	Importer   *services.Importer
	// Demo is nil unless the sample data fallback is enabled.
	Demo    *services.Demo
	Options Options
}

type Handler struct {
	log        logger.Log
	api        *api.Client
	validator  *forms.Validator
	categories *services.CategoryCache
	debouncer  *listing.Debouncer
	importer   *services.Importer
	demo       *services.Demo
	opts       Options
}

func New(d Deps) *Handler {
	if d.Options.PageSize <= 0 {
		d.Options.PageSize = 10
	}
	if d.Options.ReaderPageSize <= 0 {
		d.Options.ReaderPageSize = 9
	}
	if d.Options.UploadMaxBytes <= 0 {
		d.Options.UploadMaxBytes = 5 << 20
	}
	return &Handler{
		log:        d.Log,
		api:        d.API,
		validator:  d.Validator,
		categories: d.Categories,
		debouncer:  d.Debouncer,
		importer:   d.Importer,
		demo:       d.Demo,
		opts:       d.Options,
	}
}

// client is the API client carrying the caller's token.
func (h *Handler) client(c *gin.Context) *api.Client {
	return h.api.WithToken(session.Current(c).Token)
}

func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	s := session.Current(c)
	data["Session"] = s
	data["Username"] = h.username(c)
	data["Path"] = c.Request.URL.Path
	data["Flashes"] = append(session.Flashes(c), notices(c)...)
	c.HTML(status, name, data)
}

// notice adds a message to the page being rendered in this request.
func notice(c *gin.Context, kind session.FlashKind, message string) {
	list := notices(c)
	c.Set(ctxNotices, append(list, session.Flash{Kind: kind, Message: message}))
}

func notices(c *gin.Context) []session.Flash {
	if v, ok := c.Get(ctxNotices); ok {
		if list, ok := v.([]session.Flash); ok {
			return list
		}
	}
	return nil
}

func (h *Handler) username(c *gin.Context) string {
	if p := profile(c); p != nil && p.Username != "" {
		return p.Username
	}
	return session.Current(c).Username
}

func profile(c *gin.Context) *models.Profile {
	if v, ok := c.Get(ctxProfile); ok {
		if p, ok := v.(*models.Profile); ok {
			return p
		}
	}
	return nil
}

// rejected handles an API answer that says the token is no longer good: the
// session is dropped and the caller is sent to login. It reports whether it
// took over the response.
func (h *Handler) rejected(c *gin.Context, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	h.log.Warn("api rejected session token", "path", c.Request.URL.Path, "username", session.Current(c).Username)
	if clearErr := session.Clear(c); clearErr != nil {
		h.log.ErrorErr("failed to clear session", clearErr)
	}
	session.AddFlash(c, session.FlashError, "Your session has expired, please log in again")
	session.Deny(c)
	return true
}

func (h *Handler) logFailure(c *gin.Context, msg string, err error) {
	h.log.ErrorErr(msg, err,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
}

func (h *Handler) redirectWithFlash(c *gin.Context, location string, kind session.FlashKind, msg string) {
	session.AddFlash(c, kind, msg)
	c.Redirect(http.StatusSeeOther, location)
}

// loadProfile re-validates the session against the API on every section
// page. A rejected token ends the session; an unreachable API keeps the name
// stored at login.
func (h *Handler) loadProfile(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.client(c).Profile(ctx)
	if err != nil {
		if h.rejected(c, err) {
			return
		}
		h.log.Warn("profile unavailable", "error", err.Error(), "path", c.Request.URL.Path)
		c.Next()
		return
	}
	c.Set(ctxProfile, p)
	c.Next()
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "error.html", gin.H{
		"Title":   "Not found",
		"Message": "The page you are looking for does not exist.",
		"Back":    "/",
	})
}

func (h *Handler) Routes(r *gin.Engine) {
	r.NoRoute(h.NotFound)
	r.GET("/", h.Landing)
	r.GET("/healthz", h.Health)

	auth := r.Group("/auth")
	{
		auth.GET("/login", h.LoginPage)
		auth.POST("/login", h.Login)
		auth.GET("/register", h.RegisterPage)
		auth.POST("/register", h.Register)
		auth.POST("/logout", h.Logout)
	}

	// Form posts skip the profile check so an invalid form sends nothing
	// to the API.
	admin := r.Group("/adminpage", session.Require(models.RoleAdmin))
	{
		admin.GET("/article/rows", h.ArticleRows)
		admin.GET("/category/rows", h.CategoryRows)
		admin.POST("/upload", h.Upload)
		admin.GET("/article/:id/export", h.ExportArticle)

		admin.POST("/article/create", h.CreateArticle)
		admin.POST("/article/import", h.Import)
		admin.POST("/article/:id/edit", h.UpdateArticle)
		admin.POST("/article/:id/delete", h.DeleteArticle)
		admin.POST("/category/create", h.CreateCategory)
		admin.POST("/category/:id", h.UpdateCategory)
		admin.POST("/category/:id/delete", h.DeleteCategory)

		pages := admin.Group("", h.loadProfile)
		pages.GET("", h.Dashboard)
		pages.GET("/profile", h.Profile)

		pages.GET("/article", h.Articles)
		pages.GET("/article/create", h.NewArticle)
		pages.GET("/article/import", h.ImportPage)
		pages.GET("/article/:id", h.ArticleDetail)
		pages.GET("/article/:id/edit", h.EditArticle)
		pages.GET("/article/:id/delete", h.ConfirmDeleteArticle)

		pages.GET("/category", h.Categories)
		pages.GET("/category/create", h.NewCategory)
		pages.GET("/category/:id", h.EditCategory)
		pages.GET("/category/:id/delete", h.ConfirmDeleteCategory)
	}

	r.GET("/article/:id", session.Require(models.RoleAdmin), h.loadProfile, h.Preview)

	user := r.Group("/userpage", session.Require(models.RoleUser))
	{
		user.GET("/article/rows", h.ReaderRows)

		pages := user.Group("", h.loadProfile)
		pages.GET("", h.ReaderHome)
		pages.GET("/article", h.ReaderArticles)
		pages.GET("/article/:id", h.ReaderArticle)
	}
}

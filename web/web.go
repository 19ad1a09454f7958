// Package web embeds the HTML templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"newsdesk/pkg/content"
	"newsdesk/pkg/forms"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const placeholderImage = "/static/placeholder.svg"

func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate": formatDate,
		"richtext":   content.Render,
		"editorHTML": editorHTML,
		"excerpt":    content.Excerpt,
		"plaintext":  content.PlainText,
		"imageOr":    imageOr,
		"fieldError": fieldError,
	}
}

// Templates parses every page and fragment into one set; pages are looked
// up by file name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2 Jan 2006")
}

// editorHTML is the initial markup of the editor; empty for a new article.
func editorHTML(raw string) template.HTML {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return content.Render(raw)
}

func imageOr(url string) string {
	if content.SafeURL(url) == "#" || url == "" {
		return placeholderImage
	}
	return url
}

func fieldError(errs any, field string) string {
	switch e := errs.(type) {
	case forms.FieldErrors:
		return e[field]
	case map[string]string:
		return e[field]
	default:
		return ""
	}
}

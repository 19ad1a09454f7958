// Package forms holds the payloads posted by the login, register, article and
// category screens, along with the local checks run before any API call.
package forms

import (
	"strings"

	"newsdesk/pkg/content"
	"newsdesk/pkg/models"
)

type LoginForm struct {
	Username string `form:"username" label:"Username" validate:"required"`
	Password string `form:"password" label:"Password" validate:"required,min=6"`
}

func (f *LoginForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
}

func (f LoginForm) Credentials() models.Credentials {
	return models.Credentials{Username: f.Username, Password: f.Password}
}

type RegisterForm struct {
	Username string `form:"username" label:"Username" validate:"required"`
	Password string `form:"password" label:"Password" validate:"required,min=6"`
	Role     string `form:"role" label:"Role" validate:"required,oneof=User Admin"`
}

func (f *RegisterForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	if f.Role == "" {
		f.Role = string(models.RoleUser)
	}
}

func (f RegisterForm) Registration() models.Registration {
	return models.Registration{Username: f.Username, Password: f.Password, Role: models.Role(f.Role)}
}

// ArticleForm accepts the body in three shapes: the serialized document the
// editor keeps in sync, the editor's raw markup, or a plain textarea when
// scripts are off. Normalize folds them into Content.
type ArticleForm struct {
	Title       string `form:"title" label:"Title" validate:"required,max=255"`
	CategoryID  string `form:"categoryId" label:"Category" validate:"required"`
	Content     string `form:"content" label:"Content" validate:"required,richtext"`
	ContentHTML string `form:"content_html" validate:"-"`
	ContentText string `form:"content_text" validate:"-"`
	ImageURL    string `form:"imageUrl" label:"Image" validate:"required"`
}

func (f *ArticleForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	f.ImageURL = strings.TrimSpace(f.ImageURL)

	switch {
	case strings.TrimSpace(f.Content) != "":
		f.Content = content.Normalize(f.Content)
	case strings.TrimSpace(f.ContentHTML) != "":
		if doc, err := content.FromHTML(f.ContentHTML); err == nil {
			f.Content = doc.String()
		}
	case strings.TrimSpace(f.ContentText) != "":
		f.Content = content.FromPlainText(f.ContentText).String()
	default:
		f.Content = ""
	}
}

func (f ArticleForm) Input() models.ArticleInput {
	return models.ArticleInput{
		Title:      f.Title,
		Content:    f.Content,
		CategoryID: f.CategoryID,
		ImageURL:   f.ImageURL,
	}
}

// ArticleFormFrom pre-fills the edit form from a stored article.
func ArticleFormFrom(a models.Article) ArticleForm {
	return ArticleForm{
		Title:      a.Title,
		CategoryID: a.CategoryKey(),
		Content:    content.Normalize(a.Content),
		ImageURL:   a.ImageURL,
	}
}

type CategoryForm struct {
	Name string `form:"name" label:"Name" validate:"required,max=100"`
}

func (f *CategoryForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
}

func (f CategoryForm) Input() models.CategoryInput {
	return models.CategoryInput{Name: f.Name}
}

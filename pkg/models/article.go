package models

import "time"

// Article is a content record as served by the remote API.
type Article struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"` // serialized editor state, or legacy plain text
	ImageURL   string      `json:"imageUrl,omitempty"`
	CategoryID string      `json:"categoryId,omitempty"`
	Category   CategoryRef `json:"category"`
	UserID     string      `json:"userId,omitempty"`
	User       UserRef     `json:"user"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserRef struct {
	Username string `json:"username"`
}

// CategoryKey prefers the embedded category, the API fills one or the other.
func (a Article) CategoryKey() string {
	if a.Category.ID != "" {
		return a.Category.ID
	}
	return a.CategoryID
}

type ArticleInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID string `json:"categoryId"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CategoryInput struct {
	Name string `json:"name"`
}

type UploadResult struct {
	ImageURL string `json:"imageUrl"`
}

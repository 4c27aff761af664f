package models

import "time"

type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"authorId"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	ImageURL  string    `json:"imageUrl"`
	Published bool      `json:"published"`
	Featured  bool      `json:"featured"`
	ReadTime  int       `json:"readTime"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// swagger:model CreateArticleRequest
type CreateArticleRequest struct {
	Title     string   `json:"title"    example:"Как учить математику онлайн"`
	Slug      string   `json:"slug"     example:"kak-uchit-matematiku-online"`
	Summary   string   `json:"summary"  example:"Короткое описание для превью"`
	Content   string   `json:"content"  example:"<p>Контент</p>"`
	Category  string   `json:"category" example:"Математика"`
	Tags      []string `json:"tags"     example:"образование,онлайн"`
	ImageURL  string   `json:"imageUrl"`
	Published bool     `json:"published"`
	Featured  bool     `json:"featured"`
	ReadTime  int      `json:"readTime" example:"7"`
}

type UpdateArticleRequest struct {
	Title     *string  `json:"title,omitempty"`
	Slug      *string  `json:"slug,omitempty"`
	Summary   *string  `json:"summary,omitempty"`
	Content   *string  `json:"content,omitempty"`
	Category  *string  `json:"category,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	ImageURL  *string  `json:"imageUrl,omitempty"`
	Published *bool    `json:"published,omitempty"`
	Featured  *bool    `json:"featured,omitempty"`
	ReadTime  *int     `json:"readTime,omitempty"`
}

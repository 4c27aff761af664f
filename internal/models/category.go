package models

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	// Денормализованный счётчик статей. Поддерживается сервисом статей
	// при создании/удалении/смене категории, clamp на нуле.
	ArticleCount int       `json:"articleCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// swagger:model CreateCategoryRequest
type CreateCategoryRequest struct {
	Name        string `json:"name"        example:"Программирование"`
	Slug        string `json:"slug"        example:"programmirovanie"`
	Description string `json:"description" example:"Статьи и материалы по программированию"`
	ImageURL    string `json:"imageUrl"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

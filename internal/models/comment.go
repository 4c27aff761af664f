package models

import "time"

type Comment struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"articleId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateCommentRequest struct {
	ArticleID string `json:"articleId"`
	Content   string `json:"content" example:"Отличная статья!"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

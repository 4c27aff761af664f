package models

import "time"

type Resource struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	FileURL       string    `json:"fileUrl"`
	FileType      string    `json:"fileType"`
	Category      string    `json:"category"`
	Author        string    `json:"author"`
	AuthorID      string    `json:"authorId"`
	DownloadCount int       `json:"downloadCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// swagger:model CreateResourceRequest
type CreateResourceRequest struct {
	Title       string `json:"title"       example:"Конспект по алгебре"`
	Description string `json:"description" example:"PDF-конспект для 9 класса"`
	FileURL     string `json:"fileUrl"`
	FileType    string `json:"fileType"    example:"pdf"`
	Category    string `json:"category"    example:"Математика"`
}

type UpdateResourceRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	FileURL     *string `json:"fileUrl,omitempty"`
	FileType    *string `json:"fileType,omitempty"`
	Category    *string `json:"category,omitempty"`
}

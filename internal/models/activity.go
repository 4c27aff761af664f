package models

import "time"

type ActivityKind string

const (
	ActivityArticle  ActivityKind = "article"
	ActivityComment  ActivityKind = "comment"
	ActivityResource ActivityKind = "resource"
)

// ActivityItem — элемент ленты «последняя активность» на админском дашборде.
// Размеченное объединение: заполнен ровно один payload, соответствующий Kind.
type ActivityItem struct {
	Kind       ActivityKind `json:"kind"`
	OccurredAt time.Time    `json:"occurredAt"`
	Article    *Article     `json:"article,omitempty"`
	Comment    *Comment     `json:"comment,omitempty"`
	Resource   *Resource    `json:"resource,omitempty"`
}

package models

import "time"

type NewsletterSubscriber struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Categories   []string  `json:"categories"`
	Active       bool      `json:"active"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// swagger:model SubscribeRequest
type SubscribeRequest struct {
	Email string `json:"email" example:"reader@example.com"`
	Name  string `json:"name"  example:"Анна"`
}

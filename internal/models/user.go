package models

import "time"

// Identity — учётная запись (email + пароль). Хранится отдельно от профиля,
// профиль лежит в коллекции users под тем же id.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type UserProfile struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Role                string    `json:"role"` // admin|editor|user
	Bio                 string    `json:"bio"`
	ProfileImageURL     string    `json:"profileImageUrl"`
	CreatedAt           time.Time `json:"createdAt"`
	SavedArticles       []string  `json:"savedArticles"`
	BookmarkedResources []string  `json:"bookmarkedResources"`
}

type RegisterRequest struct {
	Email    string `json:"email"    example:"user@example.com"`
	Password string `json:"password" example:"secret123"`
	Name     string `json:"name"     example:"Иван Иванов"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name            *string `json:"name,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
}

// Package normalize приводит сырые записи документного хранилища
// (map[string]interface{} произвольной формы) к типизированным сущностям.
// Все функции чистые: без I/O и без обращения к часам. Отсутствующая
// временная метка даёт нулевой Instant — «сейчас» проставляют только
// пути создания, до вставки записи.
package normalize

import (
	"time"

	"edunewshub/internal/models"
)

// Instant принимает три формы представления момента времени:
// канонический time.Time, строку RFC3339(Nano) (в таком виде время лежит
// в jsonb-документе) и обёртку {"seconds": N} с целыми секундами эпохи.
// Любая другая форма (и отсутствие значения) даёт нулевой time.Time.
func Instant(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed.UTC()
		}
		return time.Time{}
	case map[string]interface{}:
		if secs, ok := t["seconds"]; ok {
			switch n := secs.(type) {
			case float64:
				return time.Unix(int64(n), 0).UTC()
			case int64:
				return time.Unix(n, 0).UTC()
			case int:
				return time.Unix(int64(n), 0).UTC()
			}
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}

// StringList нормализует коллекционное поле: отсутствие или чужая форма
// дают пустой (не nil) срез.
func StringList(v interface{}) []string {
	switch l := v.(type) {
	case []string:
		out := make([]string, len(l))
		copy(out, l)
		return out
	case []interface{}:
		out := make([]string, 0, len(l))
		for _, item := range l {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func boolean(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func integer(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}

func Article(id string, raw map[string]interface{}) models.Article {
	return models.Article{
		ID:        id,
		Title:     str(raw["title"]),
		Slug:      str(raw["slug"]),
		Summary:   str(raw["summary"]),
		Content:   str(raw["content"]),
		Author:    str(raw["author"]),
		AuthorID:  str(raw["authorId"]),
		Category:  str(raw["category"]),
		Tags:      StringList(raw["tags"]),
		ImageURL:  str(raw["imageUrl"]),
		Published: boolean(raw["published"]),
		Featured:  boolean(raw["featured"]),
		ReadTime:  integer(raw["readTime"]),
		CreatedAt: Instant(raw["createdAt"]),
		UpdatedAt: Instant(raw["updatedAt"]),
	}
}

func Category(id string, raw map[string]interface{}) models.Category {
	count := integer(raw["articleCount"])
	if count < 0 {
		count = 0
	}
	return models.Category{
		ID:           id,
		Name:         str(raw["name"]),
		Slug:         str(raw["slug"]),
		Description:  str(raw["description"]),
		ImageURL:     str(raw["imageUrl"]),
		ArticleCount: count,
		CreatedAt:    Instant(raw["createdAt"]),
	}
}

func Comment(id string, raw map[string]interface{}) models.Comment {
	return models.Comment{
		ID:        id,
		ArticleID: str(raw["articleId"]),
		UserID:    str(raw["userId"]),
		UserName:  str(raw["userName"]),
		Content:   str(raw["content"]),
		CreatedAt: Instant(raw["createdAt"]),
		UpdatedAt: Instant(raw["updatedAt"]),
	}
}

func Resource(id string, raw map[string]interface{}) models.Resource {
	count := integer(raw["downloadCount"])
	if count < 0 {
		count = 0
	}
	return models.Resource{
		ID:            id,
		Title:         str(raw["title"]),
		Description:   str(raw["description"]),
		FileURL:       str(raw["fileUrl"]),
		FileType:      str(raw["fileType"]),
		Category:      str(raw["category"]),
		Author:        str(raw["author"]),
		AuthorID:      str(raw["authorId"]),
		DownloadCount: count,
		CreatedAt:     Instant(raw["createdAt"]),
	}
}

func Subscriber(id string, raw map[string]interface{}) models.NewsletterSubscriber {
	return models.NewsletterSubscriber{
		ID:           id,
		Email:        str(raw["email"]),
		Name:         str(raw["name"]),
		Categories:   StringList(raw["categories"]),
		Active:       boolean(raw["active"]),
		SubscribedAt: Instant(raw["subscribedAt"]),
	}
}

func Profile(id string, raw map[string]interface{}) models.UserProfile {
	role := str(raw["role"])
	if role == "" {
		role = "user"
	}
	return models.UserProfile{
		ID:                  id,
		Name:                str(raw["name"]),
		Email:               str(raw["email"]),
		Role:                role,
		Bio:                 str(raw["bio"]),
		ProfileImageURL:     str(raw["profileImageUrl"]),
		CreatedAt:           Instant(raw["createdAt"]),
		SavedArticles:       StringList(raw["savedArticles"]),
		BookmarkedResources: StringList(raw["bookmarkedResources"]),
	}
}

func Identity(id string, raw map[string]interface{}) models.Identity {
	return models.Identity{
		ID:           id,
		Email:        str(raw["email"]),
		DisplayName:  str(raw["displayName"]),
		PasswordHash: str(raw["passwordHash"]),
		CreatedAt:    Instant(raw["createdAt"]),
	}
}

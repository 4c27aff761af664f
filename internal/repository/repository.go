// Пакет repository — аксессоры коллекций документного хранилища.
// Каждая запись, пересекающая границу хранилища, проходит через normalize.
package repository

import (
	"context"
	"encoding/json"

	"edunewshub/internal/docstore"
	"edunewshub/internal/filestore"
)

// Имена логических коллекций.
const (
	colArticles   = "articles"
	colCategories = "categories"
	colComments   = "comments"
	colResources  = "resources"
	colNewsletter = "newsletter"
	colUsers      = "users"
	colIdentities = "identities"
)

// Collections — полный список коллекций для бутстрапа хранилища.
func Collections() []string {
	return []string{
		colArticles, colCategories, colComments, colResources,
		colNewsletter, colUsers, colIdentities,
	}
}

// collection — операции docstore.Collection, нужные аксессорам.
// Выделено интерфейсом ради подмены в тестах.
type collection interface {
	Query(ctx context.Context, filter *docstore.Filter, order *docstore.Order, limit int) ([]docstore.Record, error)
	GetByID(ctx context.Context, id string) (docstore.Record, error)
	FindOneByField(ctx context.Context, field string, value interface{}) (docstore.Record, error)
	Insert(ctx context.Context, data map[string]interface{}) (string, error)
	Set(ctx context.Context, id string, data map[string]interface{}) error
	MergePatch(ctx context.Context, id string, patch map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// blobStore — загрузка вложений (картинок, файлов) с подстановкой публичного URL.
type blobStore interface {
	Save(subdir string, up *filestore.Upload) (string, error)
}

// docFrom переводит типизированную сущность в сырой документ
// (id в документе не хранится — он ключ записи).
func docFrom(v interface{}) map[string]interface{} {
	buf, _ := json.Marshal(v)
	var m map[string]interface{}
	_ = json.Unmarshal(buf, &m)
	delete(m, "id")
	return m
}

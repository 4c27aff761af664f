package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"edunewshub/internal/apperrors"
	"edunewshub/internal/docstore"
	"edunewshub/internal/filestore"
	"edunewshub/internal/models"
)

// Мок-коллекция (заглушка документного хранилища)
type fakeCollection struct {
	recs map[string]map[string]interface{}
	seq  int
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{recs: map[string]map[string]interface{}{}}
}

func (f *fakeCollection) Query(_ context.Context, filter *docstore.Filter, order *docstore.Order, limit int) ([]docstore.Record, error) {
	out := []docstore.Record{}
	for id, data := range f.recs {
		if filter != nil && data[filter.Field] != filter.Value {
			continue
		}
		out = append(out, docstore.Record{ID: id, Data: data})
	}
	if order != nil {
		sort.Slice(out, func(i, j int) bool {
			a, _ := out[i].Data[order.Field].(string)
			b, _ := out[j].Data[order.Field].(string)
			if order.Asc {
				return a < b
			}
			return a > b
		})
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCollection) GetByID(_ context.Context, id string) (docstore.Record, error) {
	data, ok := f.recs[id]
	if !ok {
		return docstore.Record{}, apperrors.ErrNotFound
	}
	return docstore.Record{ID: id, Data: data}, nil
}

func (f *fakeCollection) FindOneByField(ctx context.Context, field string, value interface{}) (docstore.Record, error) {
	list, err := f.Query(ctx, &docstore.Filter{Field: field, Value: value}, nil, 1)
	if err != nil {
		return docstore.Record{}, err
	}
	if len(list) == 0 {
		return docstore.Record{}, apperrors.ErrNotFound
	}
	return list[0], nil
}

func (f *fakeCollection) Insert(_ context.Context, data map[string]interface{}) (string, error) {
	f.seq++
	id := fmt.Sprintf("id-%d", f.seq)
	f.recs[id] = data
	return id, nil
}

func (f *fakeCollection) Set(_ context.Context, id string, data map[string]interface{}) error {
	f.recs[id] = data
	return nil
}

func (f *fakeCollection) MergePatch(_ context.Context, id string, patch map[string]interface{}) error {
	data, ok := f.recs[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	// та же полевая семантика, что у data || patch
	for k, v := range patch {
		data[k] = v
	}
	return nil
}

func (f *fakeCollection) Delete(_ context.Context, id string) error {
	delete(f.recs, id)
	return nil
}

type fakeBlobs struct{ saved int }

func (b *fakeBlobs) Save(subdir string, up *filestore.Upload) (string, error) {
	b.saved++
	return "http://test/uploads/" + subdir + "/" + up.Filename, nil
}

func TestArticleCreate_NoBlob(t *testing.T) {
	col := newFakeCollection()
	repo := &articleRepo{col: col, blobs: &fakeBlobs{}}

	created, err := repo.Create(context.Background(), models.Article{
		Title:    "Intro to Testing",
		Slug:     "intro-to-testing",
		Category: "Programming",
		Featured: false,
		Tags:     []string{},
	}, nil)
	if err != nil {
		t.Fatalf("ошибка создания статьи: %v", err)
	}

	if created.ID == "" {
		t.Fatal("id должен быть присвоен хранилищем")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("createdAt и updatedAt при создании должны совпадать: %v != %v",
			created.CreatedAt, created.UpdatedAt)
	}
	if created.ImageURL != "" {
		t.Fatalf("без вложения imageUrl должен быть пустым, получено %q", created.ImageURL)
	}
	if created.Featured {
		t.Fatal("featured должен остаться false")
	}
}

func TestArticleCreate_BlobSubstitutesURL(t *testing.T) {
	col := newFakeCollection()
	blobs := &fakeBlobs{}
	repo := &articleRepo{col: col, blobs: blobs}

	created, err := repo.Create(context.Background(), models.Article{Title: "С картинкой", Slug: "s-kartinkoy"},
		&filestore.Upload{Filename: "cover.png", Data: []byte{1}})
	if err != nil {
		t.Fatalf("ошибка создания: %v", err)
	}
	if blobs.saved != 1 {
		t.Fatal("вложение должно быть загружено до вставки записи")
	}
	if created.ImageURL != "http://test/uploads/articles/cover.png" {
		t.Fatalf("в запись должен попасть публичный URL, получено %q", created.ImageURL)
	}
}

func TestArticleList_EmptyCategoryIsNotError(t *testing.T) {
	col := newFakeCollection()
	repo := &articleRepo{col: col, blobs: &fakeBlobs{}}

	if _, err := repo.Create(context.Background(), models.Article{Title: "a", Slug: "a", Category: "Математика"}, nil); err != nil {
		t.Fatalf("подготовка: %v", err)
	}

	list, err := repo.List(context.Background(), &docstore.Filter{Field: "category", Value: "История"}, 0)
	if err != nil {
		t.Fatalf("пустая выборка не должна быть ошибкой: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("ожидался пустой список, получено %d", len(list))
	}
	if list == nil {
		t.Fatal("пустой результат — пустой срез, а не nil")
	}
}

func TestArticleGetBySlug(t *testing.T) {
	col := newFakeCollection()
	repo := &articleRepo{col: col, blobs: &fakeBlobs{}}

	created, err := repo.Create(context.Background(), models.Article{Title: "Интро", Slug: "intro"}, nil)
	if err != nil {
		t.Fatalf("подготовка: %v", err)
	}

	found, err := repo.GetBySlug(context.Background(), "intro")
	if err != nil {
		t.Fatalf("статья по slug должна находиться: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("найдена не та статья: %s != %s", found.ID, created.ID)
	}

	if _, err := repo.GetBySlug(context.Background(), "net-takogo"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("отсутствующий slug должен давать ErrNotFound, получено %v", err)
	}
}

func TestNewsletterSubscribe_DuplicateEmail(t *testing.T) {
	col := newFakeCollection()
	repo := &newsletterRepo{col: col}

	first, err := repo.Subscribe(context.Background(), "a@x.com", "Анна")
	if err != nil {
		t.Fatalf("первая подписка должна проходить: %v", err)
	}
	if !first.Active {
		t.Fatal("новый подписчик должен быть активен")
	}
	if first.SubscribedAt.IsZero() {
		t.Fatal("subscribedAt должен проставляться при создании")
	}

	_, err = repo.Subscribe(context.Background(), "a@x.com", "Анна")
	if !errors.Is(err, apperrors.ErrAlreadySubscribed) {
		t.Fatalf("повторная подписка должна давать ErrAlreadySubscribed, получено %v", err)
	}
	if len(col.recs) != 1 {
		t.Fatalf("вторая запись не должна создаваться, в коллекции %d", len(col.recs))
	}
}

func TestCategoryAdjustArticleCount_ClampsAtZero(t *testing.T) {
	col := newFakeCollection()
	blobs := &fakeBlobs{}
	repo := &categoryRepo{col: col, blobs: blobs}

	created, err := repo.Create(context.Background(), models.Category{Name: "Физика", Slug: "fizika"}, nil)
	if err != nil {
		t.Fatalf("подготовка: %v", err)
	}
	if created.ArticleCount != 0 {
		t.Fatalf("новая категория должна иметь счётчик 0, получено %d", created.ArticleCount)
	}

	after, err := repo.AdjustArticleCount(context.Background(), created.ID, -1)
	if err != nil {
		t.Fatalf("пересчёт: %v", err)
	}
	if after.ArticleCount != 0 {
		t.Fatalf("счётчик не должен уходить ниже нуля, получено %d", after.ArticleCount)
	}

	after, err = repo.AdjustArticleCount(context.Background(), created.ID, 3)
	if err != nil {
		t.Fatalf("пересчёт: %v", err)
	}
	if after.ArticleCount != 3 {
		t.Fatalf("ожидался счётчик 3, получено %d", after.ArticleCount)
	}
}

func TestArticleUpdate_MergesAndRefreshesUpdatedAt(t *testing.T) {
	col := newFakeCollection()
	repo := &articleRepo{col: col, blobs: &fakeBlobs{}}

	created, err := repo.Create(context.Background(), models.Article{
		Title: "Старый заголовок", Slug: "staryi", Summary: "кратко",
	}, nil)
	if err != nil {
		t.Fatalf("подготовка: %v", err)
	}

	updated, err := repo.Update(context.Background(), created.ID,
		map[string]interface{}{"title": "Новый заголовок"}, nil)
	if err != nil {
		t.Fatalf("обновление: %v", err)
	}
	if updated.Title != "Новый заголовок" {
		t.Fatalf("заголовок не обновился: %q", updated.Title)
	}
	if updated.Summary != "кратко" {
		t.Fatal("не переданные в patch поля не должны затираться")
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Fatal("updatedAt должен обновляться при каждой записи")
	}
}

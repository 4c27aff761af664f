package services

import (
	"context"
	"testing"
	"time"

	"edunewshub/internal/docstore"
	"edunewshub/internal/filestore"
	"edunewshub/internal/models"
)

type stubArticleRepo struct{ items []models.Article }

func (s *stubArticleRepo) List(_ context.Context, _ *docstore.Filter, _ int) ([]models.Article, error) {
	return s.items, nil
}
func (s *stubArticleRepo) GetByID(context.Context, string) (*models.Article, error)   { return nil, nil }
func (s *stubArticleRepo) GetBySlug(context.Context, string) (*models.Article, error) { return nil, nil }
func (s *stubArticleRepo) Create(context.Context, models.Article, *filestore.Upload) (*models.Article, error) {
	return nil, nil
}
func (s *stubArticleRepo) Update(context.Context, string, map[string]interface{}, *filestore.Upload) (*models.Article, error) {
	return nil, nil
}
func (s *stubArticleRepo) Delete(context.Context, string) error { return nil }

type stubCommentRepo struct{ items []models.Comment }

func (s *stubCommentRepo) ListByArticle(context.Context, string, int) ([]models.Comment, error) {
	return nil, nil
}
func (s *stubCommentRepo) ListRecent(_ context.Context, _ int) ([]models.Comment, error) {
	return s.items, nil
}
func (s *stubCommentRepo) GetByID(context.Context, string) (*models.Comment, error) { return nil, nil }
func (s *stubCommentRepo) Create(context.Context, models.Comment) (*models.Comment, error) {
	return nil, nil
}
func (s *stubCommentRepo) Update(context.Context, string, map[string]interface{}) (*models.Comment, error) {
	return nil, nil
}
func (s *stubCommentRepo) Delete(context.Context, string) error { return nil }

type stubResourceRepo struct{ items []models.Resource }

func (s *stubResourceRepo) List(_ context.Context, _ *docstore.Filter, _ int) ([]models.Resource, error) {
	return s.items, nil
}
func (s *stubResourceRepo) GetByID(context.Context, string) (*models.Resource, error) {
	return nil, nil
}
func (s *stubResourceRepo) Create(context.Context, models.Resource, *filestore.Upload) (*models.Resource, error) {
	return nil, nil
}
func (s *stubResourceRepo) Update(context.Context, string, map[string]interface{}, *filestore.Upload) (*models.Resource, error) {
	return nil, nil
}
func (s *stubResourceRepo) Delete(context.Context, string) error { return nil }
func (s *stubResourceRepo) IncrementDownloads(context.Context, string) (*models.Resource, error) {
	return nil, nil
}

func TestActivityRecent_MergedAndSortedDesc(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	articles := &stubArticleRepo{items: []models.Article{
		{ID: "a1", Title: "Статья", CreatedAt: base.Add(3 * time.Hour)},
	}}
	comments := &stubCommentRepo{items: []models.Comment{
		{ID: "c1", Content: "Комментарий", CreatedAt: base.Add(1 * time.Hour)},
	}}
	resources := &stubResourceRepo{items: []models.Resource{
		{ID: "r1", Title: "Ресурс", CreatedAt: base.Add(2 * time.Hour)},
	}}

	svc := NewActivityService(articles, comments, resources)

	items, err := svc.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("сборка ленты не должна падать: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("ожидали 3 элемента, получили %d", len(items))
	}

	wantKinds := []models.ActivityKind{models.ActivityArticle, models.ActivityResource, models.ActivityComment}
	for i, want := range wantKinds {
		if items[i].Kind != want {
			t.Errorf("позиция %d: ожидали %q, получили %q", i, want, items[i].Kind)
		}
	}
	for i := 1; i < len(items); i++ {
		if items[i].OccurredAt.After(items[i-1].OccurredAt) {
			t.Error("лента должна быть отсортирована по убыванию времени")
		}
	}
}

func TestActivityRecent_RespectsLimit(t *testing.T) {
	base := time.Now().UTC()
	articles := &stubArticleRepo{items: []models.Article{
		{ID: "a1", CreatedAt: base.Add(-1 * time.Minute)},
		{ID: "a2", CreatedAt: base.Add(-2 * time.Minute)},
	}}
	comments := &stubCommentRepo{items: []models.Comment{
		{ID: "c1", CreatedAt: base},
	}}
	resources := &stubResourceRepo{}

	svc := NewActivityService(articles, comments, resources)

	items, err := svc.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("сборка ленты: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("лимит не применён: %d", len(items))
	}
	if items[0].Kind != models.ActivityComment {
		t.Errorf("самый свежий элемент должен быть комментарием, получили %q", items[0].Kind)
	}
}

func TestActivityRecent_EachItemHasSinglePayload(t *testing.T) {
	articles := &stubArticleRepo{items: []models.Article{{ID: "a1", CreatedAt: time.Now()}}}
	comments := &stubCommentRepo{}
	resources := &stubResourceRepo{}

	svc := NewActivityService(articles, comments, resources)

	items, err := svc.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("сборка ленты: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("ожидали 1 элемент, получили %d", len(items))
	}
	it := items[0]
	if it.Article == nil || it.Comment != nil || it.Resource != nil {
		t.Error("у элемента вида article должен быть заполнен только payload статьи")
	}
}

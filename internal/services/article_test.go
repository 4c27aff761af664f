package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"edunewshub/internal/apperrors"
	"edunewshub/internal/docstore"
	"edunewshub/internal/filestore"
	"edunewshub/internal/models"
)

type mockArticleRepo struct {
	byID map[string]*models.Article
	seq  int
}

func newMockArticleRepo() *mockArticleRepo {
	return &mockArticleRepo{byID: map[string]*models.Article{}}
}

func (m *mockArticleRepo) List(_ context.Context, filter *docstore.Filter, _ int) ([]models.Article, error) {
	out := []models.Article{}
	for _, a := range m.byID {
		if filter != nil {
			switch filter.Field {
			case "published":
				if a.Published != filter.Value.(bool) {
					continue
				}
			case "category":
				if a.Category != filter.Value.(string) {
					continue
				}
			}
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockArticleRepo) GetByID(_ context.Context, id string) (*models.Article, error) {
	if a, ok := m.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockArticleRepo) GetBySlug(_ context.Context, slug string) (*models.Article, error) {
	for _, a := range m.byID {
		if a.Slug == slug {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockArticleRepo) Create(_ context.Context, a models.Article, _ *filestore.Upload) (*models.Article, error) {
	m.seq++
	a.ID = fmt.Sprintf("art-%d", m.seq)
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	m.byID[a.ID] = &a
	cp := a
	return &cp, nil
}

func (m *mockArticleRepo) Update(_ context.Context, id string, patch map[string]interface{}, _ *filestore.Upload) (*models.Article, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if v, ok := patch["category"].(string); ok {
		a.Category = v
	}
	if v, ok := patch["published"].(bool); ok {
		a.Published = v
	}
	if v, ok := patch["title"].(string); ok {
		a.Title = v
	}
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	return &cp, nil
}

func (m *mockArticleRepo) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

type mockCategoryRepo struct {
	byName map[string]*models.Category
}

func newMockCategoryRepo(names ...string) *mockCategoryRepo {
	m := &mockCategoryRepo{byName: map[string]*models.Category{}}
	for i, n := range names {
		m.byName[n] = &models.Category{ID: fmt.Sprintf("cat-%d", i+1), Name: n}
	}
	return m
}

func (m *mockCategoryRepo) List(context.Context, int) ([]models.Category, error) { return nil, nil }
func (m *mockCategoryRepo) GetByID(_ context.Context, id string) (*models.Category, error) {
	for _, c := range m.byName {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}
func (m *mockCategoryRepo) GetBySlug(context.Context, string) (*models.Category, error) {
	return nil, apperrors.ErrNotFound
}
func (m *mockCategoryRepo) GetByName(_ context.Context, name string) (*models.Category, error) {
	if c, ok := m.byName[name]; ok {
		return c, nil
	}
	return nil, apperrors.ErrNotFound
}
func (m *mockCategoryRepo) Create(_ context.Context, c models.Category, _ *filestore.Upload) (*models.Category, error) {
	m.byName[c.Name] = &c
	return &c, nil
}
func (m *mockCategoryRepo) Update(context.Context, string, map[string]interface{}, *filestore.Upload) (*models.Category, error) {
	return nil, apperrors.ErrNotFound
}
func (m *mockCategoryRepo) Delete(context.Context, string) error { return nil }
func (m *mockCategoryRepo) AdjustArticleCount(_ context.Context, id string, delta int) (*models.Category, error) {
	c, err := m.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	c.ArticleCount += delta
	if c.ArticleCount < 0 {
		c.ArticleCount = 0
	}
	return c, nil
}

func TestArticleCreate_TitleTooShort(t *testing.T) {
	svc := NewArticleService(newMockArticleRepo(), newMockCategoryRepo())

	_, err := svc.Create(context.Background(), "u1", "Иван",
		models.CreateArticleRequest{Title: "ab", Slug: "ab"}, nil)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("короткий заголовок должен давать ErrValidation, получили %v", err)
	}
}

func TestArticleCreate_DuplicateSlug(t *testing.T) {
	repo := newMockArticleRepo()
	svc := NewArticleService(repo, newMockCategoryRepo())

	req := models.CreateArticleRequest{Title: "Online Math", Slug: "online-math"}
	if _, err := svc.Create(context.Background(), "u1", "Иван", req, nil); err != nil {
		t.Fatalf("первое создание: %v", err)
	}
	_, err := svc.Create(context.Background(), "u2", "Пётр", req, nil)
	if !errors.Is(err, apperrors.ErrAlreadyExists) {
		t.Errorf("повторный slug должен давать ErrAlreadyExists, получили %v", err)
	}
}

func TestArticleCreate_SanitizesContentAndBumpsCategory(t *testing.T) {
	repo := newMockArticleRepo()
	cats := newMockCategoryRepo("Math")
	svc := NewArticleService(repo, cats)

	created, err := svc.Create(context.Background(), "u1", "Иван", models.CreateArticleRequest{
		Title:    "Online Math",
		Slug:     "online-math",
		Category: "Math",
		Content:  `<p>ok</p><script>alert(1)</script>`,
		Tags:     []string{"Math", "math", " ", "online"},
	}, nil)
	if err != nil {
		t.Fatalf("создание статьи: %v", err)
	}

	if created.ReadTime != 1 {
		t.Errorf("readTime по умолчанию должен быть 1, получили %d", created.ReadTime)
	}
	if got := created.Content; got != "<p>ok</p>" {
		t.Errorf("контент не очищен: %q", got)
	}
	if len(created.Tags) != 2 {
		t.Errorf("теги должны дедуплицироваться: %v", created.Tags)
	}
	if cats.byName["Math"].ArticleCount != 1 {
		t.Errorf("счётчик категории должен стать 1, получили %d", cats.byName["Math"].ArticleCount)
	}
}

func TestArticleUpdate_CategoryChangeMovesCounter(t *testing.T) {
	repo := newMockArticleRepo()
	cats := newMockCategoryRepo("Math", "Physics")
	svc := NewArticleService(repo, cats)

	created, err := svc.Create(context.Background(), "u1", "Иван", models.CreateArticleRequest{
		Title: "Online Math", Slug: "online-math", Category: "Math",
	}, nil)
	if err != nil {
		t.Fatalf("создание статьи: %v", err)
	}

	newCat := "Physics"
	if _, err := svc.Update(context.Background(), created.ID,
		models.UpdateArticleRequest{Category: &newCat}, nil); err != nil {
		t.Fatalf("обновление статьи: %v", err)
	}

	if cats.byName["Math"].ArticleCount != 0 {
		t.Errorf("старая категория должна потерять статью, счётчик %d", cats.byName["Math"].ArticleCount)
	}
	if cats.byName["Physics"].ArticleCount != 1 {
		t.Errorf("новая категория должна получить статью, счётчик %d", cats.byName["Physics"].ArticleCount)
	}
}

func TestArticleSearch_PublishedOnlyByTitleAndTags(t *testing.T) {
	repo := newMockArticleRepo()
	svc := NewArticleService(repo, newMockCategoryRepo())

	mustCreate := func(req models.CreateArticleRequest) *models.Article {
		t.Helper()
		a, err := svc.Create(context.Background(), "u1", "Иван", req, nil)
		if err != nil {
			t.Fatalf("создание статьи: %v", err)
		}
		return a
	}
	mustCreate(models.CreateArticleRequest{Title: "Algebra Basics", Slug: "algebra", Published: true})
	mustCreate(models.CreateArticleRequest{Title: "Hidden Draft about algebra", Slug: "draft", Published: false})
	mustCreate(models.CreateArticleRequest{Title: "Geometry", Slug: "geometry", Published: true, Tags: []string{"algebra"}})

	found, err := svc.Search(context.Background(), "Algebra")
	if err != nil {
		t.Fatalf("поиск: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("ожидали 2 опубликованных совпадения, получили %d", len(found))
	}
	for _, a := range found {
		if !a.Published {
			t.Error("черновик не должен попадать в поиск")
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Online Math 101":  "online-math-101",
		"  spaced   out  ": "spaced-out",
		"Привет":           "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, ожидали %q", in, got, want)
		}
	}
}

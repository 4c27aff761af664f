package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"edunewshub/internal/apperrors"
	"edunewshub/internal/docstore"
	"edunewshub/internal/filestore"
	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/repository"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// ArticleQuery — параметры выборки. Хранилище фильтрует по равенству
// одного поля, поэтому берётся первый заданный фильтр в порядке приоритета:
// автор → категория → featured → published.
type ArticleQuery struct {
	AuthorID      string
	Category      string
	FeaturedOnly  bool
	PublishedOnly bool
	Limit         int
}

type ArticleService interface {
	List(ctx context.Context, q ArticleQuery) ([]models.Article, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	Create(ctx context.Context, authorID, authorName string, req models.CreateArticleRequest, image *filestore.Upload) (*models.Article, error)
	Update(ctx context.Context, id string, req models.UpdateArticleRequest, image *filestore.Upload) (*models.Article, error)
	Delete(ctx context.Context, id string) error
	SetPublish(ctx context.Context, id string, publish bool) (*models.Article, error)
	Search(ctx context.Context, query string) ([]models.Article, error)
}

type articleService struct {
	repo       repository.ArticleRepo
	categories repository.CategoryRepo
	policy     *bluemonday.Policy
}

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func NewArticleService(repo repository.ArticleRepo, categories repository.CategoryRepo) ArticleService {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img")
	p.AllowAttrs("src", "alt").OnElements("img")
	return &articleService{repo: repo, categories: categories, policy: p}
}

func (s *articleService) List(ctx context.Context, q ArticleQuery) ([]models.Article, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение списка статей",
		zap.String("author_id", q.AuthorID),
		zap.String("category", q.Category),
		zap.Bool("featured_only", q.FeaturedOnly),
		zap.Bool("published_only", q.PublishedOnly),
		zap.Int("limit", q.Limit),
	)

	var filter *docstore.Filter
	switch {
	case q.AuthorID != "":
		filter = &docstore.Filter{Field: "authorId", Value: q.AuthorID}
	case q.Category != "":
		filter = &docstore.Filter{Field: "category", Value: q.Category}
	case q.FeaturedOnly:
		filter = &docstore.Filter{Field: "featured", Value: true}
	case q.PublishedOnly:
		filter = &docstore.Filter{Field: "published", Value: true}
	}

	list, err := s.repo.List(ctx, filter, q.Limit)
	if err != nil {
		return nil, err
	}

	log.Debug("Список статей получен", zap.Int("count", len(list)))
	return list, nil
}

func (s *articleService) GetByID(ctx context.Context, id string) (*models.Article, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *articleService) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *articleService) Create(ctx context.Context, authorID, authorName string, req models.CreateArticleRequest, image *filestore.Upload) (*models.Article, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание статьи",
		zap.String("author_id", authorID),
		zap.String("title", strings.TrimSpace(req.Title)),
		zap.Bool("publish", req.Published),
		zap.Int("tags_count", len(req.Tags)),
	)

	title := strings.TrimSpace(req.Title)
	if l := utf8.RuneCountInString(title); l < 3 || l > 255 {
		err := fmt.Errorf("%w: длина заголовка должна быть от 3 до 255 символов", apperrors.ErrValidation)
		log.Warn("Валидация не пройдена: заголовок", zap.Int("runes", l), zap.Error(err))
		return nil, err
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if !slugRe.MatchString(slug) {
		err := fmt.Errorf("%w: slug должен состоять из латиницы, цифр и дефисов", apperrors.ErrValidation)
		log.Warn("Валидация не пройдена: slug", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}

	// slug — публичный ключ, дубликат отклоняем до вставки
	if _, err := s.repo.GetBySlug(ctx, slug); err == nil {
		err = fmt.Errorf("%w: статья со slug %q уже есть", apperrors.ErrAlreadyExists, slug)
		log.Warn("Валидация не пройдена: дубликат slug", zap.String("slug", slug))
		return nil, err
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	readTime := req.ReadTime
	if readTime <= 0 {
		readTime = 1
	}

	a := models.Article{
		Title:     title,
		Slug:      slug,
		Summary:   strings.TrimSpace(req.Summary),
		Content:   s.policy.Sanitize(req.Content),
		Author:    authorName,
		AuthorID:  authorID,
		Category:  strings.TrimSpace(req.Category),
		Tags:      normalizeTags(req.Tags),
		ImageURL:  req.ImageURL,
		Published: req.Published,
		Featured:  req.Featured,
		ReadTime:  readTime,
	}

	created, err := s.repo.Create(ctx, a, image)
	if err != nil {
		log.Error("Ошибка создания статьи (service)", zap.Error(err))
		return nil, err
	}

	s.bumpCategoryCount(ctx, created.Category, +1)

	log.Info("Статья создана",
		zap.String("article_id", created.ID),
		zap.String("slug", created.Slug),
		zap.Bool("published", created.Published),
	)
	return created, nil
}

func (s *articleService) Update(ctx context.Context, id string, req models.UpdateArticleRequest, image *filestore.Upload) (*models.Article, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление статьи", zap.String("article_id", id))

	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if l := utf8.RuneCountInString(title); l < 3 || l > 255 {
			return nil, fmt.Errorf("%w: длина заголовка должна быть от 3 до 255 символов", apperrors.ErrValidation)
		}
		patch["title"] = title
	}
	if req.Slug != nil {
		if !slugRe.MatchString(*req.Slug) {
			return nil, fmt.Errorf("%w: slug должен состоять из латиницы, цифр и дефисов", apperrors.ErrValidation)
		}
		patch["slug"] = *req.Slug
	}
	if req.Summary != nil {
		patch["summary"] = strings.TrimSpace(*req.Summary)
	}
	if req.Content != nil {
		patch["content"] = s.policy.Sanitize(*req.Content)
	}
	if req.Category != nil {
		patch["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Tags != nil {
		patch["tags"] = normalizeTags(req.Tags)
	}
	if req.ImageURL != nil {
		patch["imageUrl"] = *req.ImageURL
	}
	if req.Published != nil {
		patch["published"] = *req.Published
	}
	if req.Featured != nil {
		patch["featured"] = *req.Featured
	}
	if req.ReadTime != nil && *req.ReadTime > 0 {
		patch["readTime"] = *req.ReadTime
	}

	updated, err := s.repo.Update(ctx, id, patch, image)
	if err != nil {
		log.Error("Ошибка обновления статьи (service)", zap.String("article_id", id), zap.Error(err))
		return nil, err
	}

	if updated.Category != before.Category {
		s.bumpCategoryCount(ctx, before.Category, -1)
		s.bumpCategoryCount(ctx, updated.Category, +1)
	}

	log.Info("Статья обновлена", zap.String("article_id", id))
	return updated, nil
}

func (s *articleService) Delete(ctx context.Context, id string) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление статьи", zap.String("article_id", id))

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления статьи (service)", zap.String("article_id", id), zap.Error(err))
		return err
	}

	s.bumpCategoryCount(ctx, a.Category, -1)

	log.Info("Статья удалена", zap.String("article_id", id))
	return nil
}

func (s *articleService) SetPublish(ctx context.Context, id string, publish bool) (*models.Article, error) {
	log := logger.WithCtx(ctx)
	log.Info("Изменение статуса публикации", zap.String("article_id", id), zap.Bool("publish", publish))

	return s.Update(ctx, id, models.UpdateArticleRequest{Published: &publish}, nil)
}

// Search — фильтрация опубликованных статей по подстроке
// (заголовок, аннотация, теги), без учёта регистра.
func (s *articleService) Search(ctx context.Context, query string) ([]models.Article, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Поиск статей", zap.Int("query_len", len(query)))

	list, err := s.repo.List(ctx, &docstore.Filter{Field: "published", Value: true}, 0)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Article{}
	for _, a := range list {
		if strings.Contains(strings.ToLower(a.Title), q) ||
			strings.Contains(strings.ToLower(a.Summary), q) ||
			tagsContain(a.Tags, q) {
			out = append(out, a)
		}
	}

	log.Debug("Поиск статей завершён", zap.Int("count", len(out)))
	return out, nil
}

// bumpCategoryCount поддерживает денормализованный счётчик категории.
// Best-effort: категория — свободная строка, а не внешний ключ, поэтому
// отсутствие категории или ошибка пересчёта не валит операцию со статьёй.
func (s *articleService) bumpCategoryCount(ctx context.Context, categoryName string, delta int) {
	if strings.TrimSpace(categoryName) == "" {
		return
	}
	cat, err := s.categories.GetByName(ctx, categoryName)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.WithCtx(ctx).Warn("Не удалось найти категорию для пересчёта",
				zap.String("category", categoryName), zap.Error(err))
		}
		return
	}
	if _, err := s.categories.AdjustArticleCount(ctx, cat.ID, delta); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось пересчитать статьи категории",
			zap.String("category_id", cat.ID), zap.Int("delta", delta), zap.Error(err))
	}
}

func tagsContain(tags []string, q string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func normalizeTags(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Slugify строит slug из заголовка: латиница и цифры, разделитель — дефис.
func Slugify(title string) string {
	var b strings.Builder
	prevDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"edunewshub/internal/apperrors"
	"edunewshub/internal/filestore"
	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/repository"

	"go.uber.org/zap"
)

type CategoryService interface {
	List(ctx context.Context, limit int) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, req models.CreateCategoryRequest, image *filestore.Upload) (*models.Category, error)
	Update(ctx context.Context, id string, req models.UpdateCategoryRequest, image *filestore.Upload) (*models.Category, error)
	Delete(ctx context.Context, id string) error
	AdjustArticleCount(ctx context.Context, id string, delta int) (*models.Category, error)
}

type categoryService struct {
	repo repository.CategoryRepo
}

func NewCategoryService(repo repository.CategoryRepo) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, limit int) ([]models.Category, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение списка категорий", zap.Int("limit", limit))

	list, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	log.Debug("Список категорий получен", zap.Int("count", len(list)))
	return list, nil
}

func (s *categoryService) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *categoryService) Create(ctx context.Context, req models.CreateCategoryRequest, image *filestore.Upload) (*models.Category, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание категории", zap.String("name", strings.TrimSpace(req.Name)))

	name := strings.TrimSpace(req.Name)
	if name == "" {
		err := fmt.Errorf("%w: имя категории обязательно", apperrors.ErrValidation)
		log.Warn("Валидация не пройдена: имя категории", zap.Error(err))
		return nil, err
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if !slugRe.MatchString(slug) {
		err := fmt.Errorf("%w: slug должен состоять из латиницы, цифр и дефисов", apperrors.ErrValidation)
		log.Warn("Валидация не пройдена: slug категории", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.GetBySlug(ctx, slug); err == nil {
		return nil, fmt.Errorf("%w: категория со slug %q уже есть", apperrors.ErrAlreadyExists, slug)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	c := models.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
		ImageURL:    req.ImageURL,
	}

	created, err := s.repo.Create(ctx, c, image)
	if err != nil {
		log.Error("Ошибка создания категории (service)", zap.Error(err))
		return nil, err
	}

	log.Info("Категория создана", zap.String("category_id", created.ID), zap.String("slug", created.Slug))
	return created, nil
}

func (s *categoryService) Update(ctx context.Context, id string, req models.UpdateCategoryRequest, image *filestore.Upload) (*models.Category, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление категории", zap.String("category_id", id))

	patch := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: имя категории обязательно", apperrors.ErrValidation)
		}
		patch["name"] = name
	}
	if req.Slug != nil {
		if !slugRe.MatchString(*req.Slug) {
			return nil, fmt.Errorf("%w: slug должен состоять из латиницы, цифр и дефисов", apperrors.ErrValidation)
		}
		patch["slug"] = *req.Slug
	}
	if req.Description != nil {
		patch["description"] = strings.TrimSpace(*req.Description)
	}
	if req.ImageURL != nil {
		patch["imageUrl"] = *req.ImageURL
	}

	updated, err := s.repo.Update(ctx, id, patch, image)
	if err != nil {
		log.Error("Ошибка обновления категории (service)", zap.String("category_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Категория обновлена", zap.String("category_id", id))
	return updated, nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление категории", zap.String("category_id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления категории (service)", zap.String("category_id", id), zap.Error(err))
		return err
	}

	log.Info("Категория удалена", zap.String("category_id", id))
	return nil
}

func (s *categoryService) AdjustArticleCount(ctx context.Context, id string, delta int) (*models.Category, error) {
	log := logger.WithCtx(ctx)
	log.Info("Пересчёт статей категории", zap.String("category_id", id), zap.Int("delta", delta))

	c, err := s.repo.AdjustArticleCount(ctx, id, delta)
	if err != nil {
		log.Error("Ошибка пересчёта статей категории (service)", zap.String("category_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Счётчик статей категории обновлён",
		zap.String("category_id", id), zap.Int("article_count", c.ArticleCount))
	return c, nil
}

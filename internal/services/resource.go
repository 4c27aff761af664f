package services

import (
	"context"
	"fmt"
	"strings"

	"edunewshub/internal/apperrors"
	"edunewshub/internal/docstore"
	"edunewshub/internal/filestore"
	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/repository"

	"go.uber.org/zap"
)

// дефолтный размер страницы ресурсов на витрине
const defaultResourceLimit = 10

type ResourceService interface {
	List(ctx context.Context, category, authorID string, limit int) ([]models.Resource, error)
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	Create(ctx context.Context, authorID, authorName string, req models.CreateResourceRequest, file *filestore.Upload) (*models.Resource, error)
	Update(ctx context.Context, id string, req models.UpdateResourceRequest, file *filestore.Upload) (*models.Resource, error)
	Delete(ctx context.Context, id string) error
	Download(ctx context.Context, id string) (*models.Resource, error)
	Search(ctx context.Context, query string) ([]models.Resource, error)
}

type resourceService struct {
	repo repository.ResourceRepo
}

func NewResourceService(repo repository.ResourceRepo) ResourceService {
	return &resourceService{repo: repo}
}

func (s *resourceService) List(ctx context.Context, category, authorID string, limit int) ([]models.Resource, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение списка ресурсов",
		zap.String("category", category),
		zap.String("author_id", authorID),
		zap.Int("limit", limit),
	)

	if limit <= 0 {
		limit = defaultResourceLimit
	}

	var filter *docstore.Filter
	switch {
	case authorID != "":
		filter = &docstore.Filter{Field: "authorId", Value: authorID}
	case category != "":
		filter = &docstore.Filter{Field: "category", Value: category}
	}

	list, err := s.repo.List(ctx, filter, limit)
	if err != nil {
		return nil, err
	}

	log.Debug("Список ресурсов получен", zap.Int("count", len(list)))
	return list, nil
}

func (s *resourceService) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *resourceService) Create(ctx context.Context, authorID, authorName string, req models.CreateResourceRequest, file *filestore.Upload) (*models.Resource, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание ресурса", zap.String("title", strings.TrimSpace(req.Title)))

	title := strings.TrimSpace(req.Title)
	if title == "" {
		err := fmt.Errorf("%w: название ресурса обязательно", apperrors.ErrValidation)
		log.Warn("Валидация не пройдена: название ресурса", zap.Error(err))
		return nil, err
	}
	if file == nil && strings.TrimSpace(req.FileURL) == "" {
		err := fmt.Errorf("%w: нужен файл или ссылка на файл", apperrors.ErrValidation)
		log.Warn("Валидация не пройдена: файл ресурса", zap.Error(err))
		return nil, err
	}

	fileType := strings.TrimSpace(req.FileType)
	if fileType == "" && file != nil {
		if i := strings.LastIndexByte(file.Filename, '.'); i >= 0 {
			fileType = strings.ToLower(file.Filename[i+1:])
		}
	}

	res := models.Resource{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		FileURL:     req.FileURL,
		FileType:    fileType,
		Category:    strings.TrimSpace(req.Category),
		Author:      authorName,
		AuthorID:    authorID,
	}

	created, err := s.repo.Create(ctx, res, file)
	if err != nil {
		log.Error("Ошибка создания ресурса (service)", zap.Error(err))
		return nil, err
	}

	log.Info("Ресурс создан", zap.String("resource_id", created.ID))
	return created, nil
}

func (s *resourceService) Update(ctx context.Context, id string, req models.UpdateResourceRequest, file *filestore.Upload) (*models.Resource, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление ресурса", zap.String("resource_id", id))

	patch := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: название ресурса обязательно", apperrors.ErrValidation)
		}
		patch["title"] = title
	}
	if req.Description != nil {
		patch["description"] = strings.TrimSpace(*req.Description)
	}
	if req.FileURL != nil {
		patch["fileUrl"] = *req.FileURL
	}
	if req.FileType != nil {
		patch["fileType"] = strings.ToLower(strings.TrimSpace(*req.FileType))
	}
	if req.Category != nil {
		patch["category"] = strings.TrimSpace(*req.Category)
	}

	updated, err := s.repo.Update(ctx, id, patch, file)
	if err != nil {
		log.Error("Ошибка обновления ресурса (service)", zap.String("resource_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Ресурс обновлён", zap.String("resource_id", id))
	return updated, nil
}

func (s *resourceService) Delete(ctx context.Context, id string) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление ресурса", zap.String("resource_id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления ресурса (service)", zap.String("resource_id", id), zap.Error(err))
		return err
	}

	log.Info("Ресурс удалён", zap.String("resource_id", id))
	return nil
}

// Download инкрементирует счётчик скачиваний и возвращает ресурс со ссылкой.
func (s *resourceService) Download(ctx context.Context, id string) (*models.Resource, error) {
	log := logger.WithCtx(ctx)

	res, err := s.repo.IncrementDownloads(ctx, id)
	if err != nil {
		log.Warn("Ошибка скачивания ресурса (service)", zap.String("resource_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Скачивание ресурса", zap.String("resource_id", id), zap.Int("downloads", res.DownloadCount))
	return res, nil
}

func (s *resourceService) Search(ctx context.Context, query string) ([]models.Resource, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Поиск ресурсов", zap.Int("query_len", len(query)))

	list, err := s.repo.List(ctx, nil, 0)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Resource{}
	for _, r := range list {
		if strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Description), q) {
			out = append(out, r)
		}
	}

	log.Debug("Поиск ресурсов завершён", zap.Int("count", len(out)))
	return out, nil
}

package services

import (
	"context"
	"fmt"
	"strings"

	"edunewshub/internal/apperrors"
	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/repository"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type CommentService interface {
	ListByArticle(ctx context.Context, articleID string, limit int) ([]models.Comment, error)
	Create(ctx context.Context, userID, userName string, req models.CreateCommentRequest) (*models.Comment, error)
	Update(ctx context.Context, id, requesterID, requesterRole, content string) (*models.Comment, error)
	Delete(ctx context.Context, id, requesterID, requesterRole string) error
}

type commentService struct {
	repo     repository.CommentRepo
	articles repository.ArticleRepo
	policy   *bluemonday.Policy
}

func NewCommentService(repo repository.CommentRepo, articles repository.ArticleRepo) CommentService {
	return &commentService{repo: repo, articles: articles, policy: bluemonday.StrictPolicy()}
}

func (s *commentService) ListByArticle(ctx context.Context, articleID string, limit int) ([]models.Comment, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение комментариев статьи", zap.String("article_id", articleID), zap.Int("limit", limit))

	list, err := s.repo.ListByArticle(ctx, articleID, limit)
	if err != nil {
		return nil, err
	}

	log.Debug("Комментарии получены", zap.Int("count", len(list)))
	return list, nil
}

func (s *commentService) Create(ctx context.Context, userID, userName string, req models.CreateCommentRequest) (*models.Comment, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание комментария", zap.String("article_id", req.ArticleID))

	content := strings.TrimSpace(s.policy.Sanitize(req.Content))
	if content == "" {
		err := fmt.Errorf("%w: пустой комментарий", apperrors.ErrValidation)
		log.Warn("Валидация не пройдена: комментарий", zap.Error(err))
		return nil, err
	}

	// статья должна существовать
	if _, err := s.articles.GetByID(ctx, req.ArticleID); err != nil {
		log.Warn("Комментарий к несуществующей статье", zap.String("article_id", req.ArticleID), zap.Error(err))
		return nil, err
	}

	c := models.Comment{
		ArticleID: req.ArticleID,
		UserID:    userID,
		UserName:  userName,
		Content:   content,
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		log.Error("Ошибка создания комментария (service)", zap.Error(err))
		return nil, err
	}

	log.Info("Комментарий создан", zap.String("comment_id", created.ID))
	return created, nil
}

func (s *commentService) Update(ctx context.Context, id, requesterID, requesterRole, content string) (*models.Comment, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление комментария", zap.String("comment_id", id))

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != requesterID && requesterRole != "admin" {
		log.Warn("Попытка редактировать чужой комментарий",
			zap.String("comment_id", id), zap.String("requester_id", requesterID))
		return nil, apperrors.ErrForbidden
	}

	clean := strings.TrimSpace(s.policy.Sanitize(content))
	if clean == "" {
		return nil, fmt.Errorf("%w: пустой комментарий", apperrors.ErrValidation)
	}

	updated, err := s.repo.Update(ctx, id, map[string]interface{}{"content": clean})
	if err != nil {
		log.Error("Ошибка обновления комментария (service)", zap.String("comment_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Комментарий обновлён", zap.String("comment_id", id))
	return updated, nil
}

func (s *commentService) Delete(ctx context.Context, id, requesterID, requesterRole string) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление комментария", zap.String("comment_id", id))

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != requesterID && requesterRole != "admin" {
		log.Warn("Попытка удалить чужой комментарий",
			zap.String("comment_id", id), zap.String("requester_id", requesterID))
		return apperrors.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления комментария (service)", zap.String("comment_id", id), zap.Error(err))
		return err
	}

	log.Info("Комментарий удалён", zap.String("comment_id", id))
	return nil
}

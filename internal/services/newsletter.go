package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"edunewshub/internal/apperrors"
	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/repository"

	"go.uber.org/zap"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type NewsletterService interface {
	Subscribe(ctx context.Context, req models.SubscribeRequest) (*models.NewsletterSubscriber, error)
	List(ctx context.Context, limit int) ([]models.NewsletterSubscriber, error)
	SetActive(ctx context.Context, id string, active bool) (*models.NewsletterSubscriber, error)
	SetCategories(ctx context.Context, id string, categories []string) (*models.NewsletterSubscriber, error)
	Delete(ctx context.Context, id string) error
}

type newsletterService struct {
	repo repository.NewsletterRepo
}

func NewNewsletterService(repo repository.NewsletterRepo) NewsletterService {
	return &newsletterService{repo: repo}
}

func (s *newsletterService) Subscribe(ctx context.Context, req models.SubscribeRequest) (*models.NewsletterSubscriber, error) {
	log := logger.WithCtx(ctx)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRe.MatchString(email) {
		err := fmt.Errorf("%w: некорректный email", apperrors.ErrValidation)
		log.Warn("Валидация не пройдена: email подписки", zap.Error(err))
		return nil, err
	}

	log.Info("Подписка на рассылку", zap.String("email", email))

	sub, err := s.repo.Subscribe(ctx, email, strings.TrimSpace(req.Name))
	if err != nil {
		log.Warn("Подписка не создана (service)", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	log.Info("Подписчик создан", zap.String("subscriber_id", sub.ID))
	return sub, nil
}

func (s *newsletterService) List(ctx context.Context, limit int) ([]models.NewsletterSubscriber, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение подписчиков рассылки", zap.Int("limit", limit))

	list, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	log.Debug("Подписчики получены", zap.Int("count", len(list)))
	return list, nil
}

func (s *newsletterService) SetActive(ctx context.Context, id string, active bool) (*models.NewsletterSubscriber, error) {
	log := logger.WithCtx(ctx)
	log.Info("Смена статуса подписки", zap.String("subscriber_id", id), zap.Bool("active", active))

	sub, err := s.repo.Update(ctx, id, map[string]interface{}{"active": active})
	if err != nil {
		log.Error("Ошибка смены статуса подписки (service)", zap.String("subscriber_id", id), zap.Error(err))
		return nil, err
	}
	return sub, nil
}

func (s *newsletterService) SetCategories(ctx context.Context, id string, categories []string) (*models.NewsletterSubscriber, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление интересов подписчика", zap.String("subscriber_id", id), zap.Int("count", len(categories)))

	if categories == nil {
		categories = []string{}
	}
	sub, err := s.repo.Update(ctx, id, map[string]interface{}{"categories": categories})
	if err != nil {
		log.Error("Ошибка обновления интересов (service)", zap.String("subscriber_id", id), zap.Error(err))
		return nil, err
	}
	return sub, nil
}

func (s *newsletterService) Delete(ctx context.Context, id string) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление подписчика", zap.String("subscriber_id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления подписчика (service)", zap.String("subscriber_id", id), zap.Error(err))
		return err
	}
	return nil
}

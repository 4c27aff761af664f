package repository

import (
	"context"
	"errors"
	"time"

	"edunewshub/internal/apperrors"
	"edunewshub/internal/docstore"
	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/normalize"

	"go.uber.org/zap"
)

type NewsletterRepo interface {
	List(ctx context.Context, limit int) ([]models.NewsletterSubscriber, error)
	GetByID(ctx context.Context, id string) (*models.NewsletterSubscriber, error)
	GetByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error)
	Subscribe(ctx context.Context, email, name string) (*models.NewsletterSubscriber, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*models.NewsletterSubscriber, error)
	Delete(ctx context.Context, id string) error
}

type newsletterRepo struct {
	col collection
}

func NewNewsletterRepo(store *docstore.Store) NewsletterRepo {
	return &newsletterRepo{col: store.Collection(colNewsletter)}
}

func (r *newsletterRepo) List(ctx context.Context, limit int) ([]models.NewsletterSubscriber, error) {
	recs, err := r.col.Query(ctx, nil, &docstore.Order{Field: "subscribedAt"}, limit)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения подписчиков рассылки (repo)", zap.Error(err))
		return nil, err
	}

	list := make([]models.NewsletterSubscriber, 0, len(recs))
	for _, rec := range recs {
		list = append(list, normalize.Subscriber(rec.ID, rec.Data))
	}
	return list, nil
}

func (r *newsletterRepo) GetByID(ctx context.Context, id string) (*models.NewsletterSubscriber, error) {
	rec, err := r.col.GetByID(ctx, id)
	if err != nil {
		logger.WithCtx(ctx).Warn("Подписчик не найден (repo)", zap.String("subscriber_id", id), zap.Error(err))
		return nil, err
	}
	s := normalize.Subscriber(rec.ID, rec.Data)
	return &s, nil
}

func (r *newsletterRepo) GetByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	rec, err := r.col.FindOneByField(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	s := normalize.Subscriber(rec.ID, rec.Data)
	return &s, nil
}

// Subscribe — проверка уникальности email перед вставкой.
// Окно гонки между проверкой и вставкой осознанно не закрыто (см. DESIGN.md):
// два одновременных вызова с одним email могут оба пройти проверку.
func (r *newsletterRepo) Subscribe(ctx context.Context, email, name string) (*models.NewsletterSubscriber, error) {
	log := logger.WithCtx(ctx)

	_, err := r.GetByEmail(ctx, email)
	if err == nil {
		log.Warn("Повторная подписка на рассылку (repo)", zap.String("email", email))
		return nil, apperrors.ErrAlreadySubscribed
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		log.Error("Ошибка проверки email подписчика (repo)", zap.Error(err))
		return nil, err
	}

	sub := models.NewsletterSubscriber{
		Email:        email,
		Name:         name,
		Categories:   []string{},
		Active:       true,
		SubscribedAt: time.Now().UTC(),
	}

	doc := docFrom(sub)
	id, err := r.col.Insert(ctx, doc)
	if err != nil {
		log.Error("Ошибка создания подписчика (repo)", zap.Error(err))
		return nil, err
	}

	// читаем обратно, как и остальные пути создания
	return r.GetByID(ctx, id)
}

func (r *newsletterRepo) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.NewsletterSubscriber, error) {
	if err := r.col.MergePatch(ctx, id, patch); err != nil {
		logger.WithCtx(ctx).Error("Ошибка обновления подписчика (repo)", zap.String("subscriber_id", id), zap.Error(err))
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *newsletterRepo) Delete(ctx context.Context, id string) error {
	if err := r.col.Delete(ctx, id); err != nil {
		logger.WithCtx(ctx).Error("Ошибка удаления подписчика (repo)", zap.String("subscriber_id", id), zap.Error(err))
		return err
	}
	return nil
}

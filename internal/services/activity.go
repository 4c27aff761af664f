package services

import (
	"context"
	"sort"

	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/repository"

	"go.uber.org/zap"
)

const defaultActivityLimit = 20

type ActivityService interface {
	Recent(ctx context.Context, limit int) ([]models.ActivityItem, error)
}

type activityService struct {
	articles  repository.ArticleRepo
	comments  repository.CommentRepo
	resources repository.ResourceRepo
}

func NewActivityService(articles repository.ArticleRepo, comments repository.CommentRepo, resources repository.ResourceRepo) ActivityService {
	return &activityService{articles: articles, comments: comments, resources: resources}
}

// Recent собирает ленту последних событий из трёх коллекций, сортирует по
// времени по убыванию и обрезает до limit. Ошибка любой коллекции
// прерывает сборку.
func (s *activityService) Recent(ctx context.Context, limit int) ([]models.ActivityItem, error) {
	log := logger.WithCtx(ctx)

	if limit <= 0 {
		limit = defaultActivityLimit
	}

	articles, err := s.articles.List(ctx, nil, limit)
	if err != nil {
		log.Error("Ошибка чтения статей для ленты", zap.Error(err))
		return nil, err
	}

	comments, err := s.comments.ListRecent(ctx, limit)
	if err != nil {
		log.Error("Ошибка чтения комментариев для ленты", zap.Error(err))
		return nil, err
	}

	resources, err := s.resources.List(ctx, nil, limit)
	if err != nil {
		log.Error("Ошибка чтения ресурсов для ленты", zap.Error(err))
		return nil, err
	}

	items := make([]models.ActivityItem, 0, len(articles)+len(comments)+len(resources))
	for i := range articles {
		a := articles[i]
		items = append(items, models.ActivityItem{
			Kind:       models.ActivityArticle,
			OccurredAt: a.CreatedAt,
			Article:    &a,
		})
	}
	for i := range comments {
		c := comments[i]
		items = append(items, models.ActivityItem{
			Kind:       models.ActivityComment,
			OccurredAt: c.CreatedAt,
			Comment:    &c,
		})
	}
	for i := range resources {
		r := resources[i]
		items = append(items, models.ActivityItem{
			Kind:       models.ActivityResource,
			OccurredAt: r.CreatedAt,
			Resource:   &r,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].OccurredAt.After(items[j].OccurredAt)
	})

	if len(items) > limit {
		items = items[:limit]
	}

	log.Info("Лента активности собрана", zap.Int("count", len(items)))
	return items, nil
}

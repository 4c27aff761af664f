package repository

import (
	"context"
	"time"

	"edunewshub/internal/docstore"
	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/normalize"

	"go.uber.org/zap"
)

type CommentRepo interface {
	ListByArticle(ctx context.Context, articleID string, limit int) ([]models.Comment, error)
	ListRecent(ctx context.Context, limit int) ([]models.Comment, error)
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Create(ctx context.Context, c models.Comment) (*models.Comment, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
}

type commentRepo struct {
	col collection
}

func NewCommentRepo(store *docstore.Store) CommentRepo {
	return &commentRepo{col: store.Collection(colComments)}
}

func (r *commentRepo) ListByArticle(ctx context.Context, articleID string, limit int) ([]models.Comment, error) {
	filter := &docstore.Filter{Field: "articleId", Value: articleID}
	recs, err := r.col.Query(ctx, filter, &docstore.Order{Field: "createdAt"}, limit)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения комментариев статьи (repo)",
			zap.String("article_id", articleID), zap.Error(err))
		return nil, err
	}

	list := make([]models.Comment, 0, len(recs))
	for _, rec := range recs {
		list = append(list, normalize.Comment(rec.ID, rec.Data))
	}
	return list, nil
}

func (r *commentRepo) ListRecent(ctx context.Context, limit int) ([]models.Comment, error) {
	recs, err := r.col.Query(ctx, nil, &docstore.Order{Field: "createdAt"}, limit)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения последних комментариев (repo)", zap.Error(err))
		return nil, err
	}

	list := make([]models.Comment, 0, len(recs))
	for _, rec := range recs {
		list = append(list, normalize.Comment(rec.ID, rec.Data))
	}
	return list, nil
}

func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	rec, err := r.col.GetByID(ctx, id)
	if err != nil {
		logger.WithCtx(ctx).Warn("Комментарий не найден (repo)", zap.String("comment_id", id), zap.Error(err))
		return nil, err
	}
	c := normalize.Comment(rec.ID, rec.Data)
	return &c, nil
}

func (r *commentRepo) Create(ctx context.Context, c models.Comment) (*models.Comment, error) {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	doc := docFrom(c)
	id, err := r.col.Insert(ctx, doc)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка создания комментария (repo)", zap.Error(err))
		return nil, err
	}

	created := normalize.Comment(id, doc)
	return &created, nil
}

func (r *commentRepo) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Comment, error) {
	patch["updatedAt"] = time.Now().UTC()

	if err := r.col.MergePatch(ctx, id, patch); err != nil {
		logger.WithCtx(ctx).Error("Ошибка обновления комментария (repo)", zap.String("comment_id", id), zap.Error(err))
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *commentRepo) Delete(ctx context.Context, id string) error {
	if err := r.col.Delete(ctx, id); err != nil {
		logger.WithCtx(ctx).Error("Ошибка удаления комментария (repo)", zap.String("comment_id", id), zap.Error(err))
		return err
	}
	return nil
}

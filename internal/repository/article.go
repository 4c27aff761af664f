package repository

import (
	"context"
	"time"

	"edunewshub/internal/docstore"
	"edunewshub/internal/filestore"
	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/normalize"

	"go.uber.org/zap"
)

type ArticleRepo interface {
	List(ctx context.Context, filter *docstore.Filter, limit int) ([]models.Article, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	Create(ctx context.Context, a models.Article, image *filestore.Upload) (*models.Article, error)
	Update(ctx context.Context, id string, patch map[string]interface{}, image *filestore.Upload) (*models.Article, error)
	Delete(ctx context.Context, id string) error
}

type articleRepo struct {
	col   collection
	blobs blobStore
}

func NewArticleRepo(store *docstore.Store, blobs blobStore) ArticleRepo {
	return &articleRepo{col: store.Collection(colArticles), blobs: blobs}
}

func (r *articleRepo) List(ctx context.Context, filter *docstore.Filter, limit int) ([]models.Article, error) {
	recs, err := r.col.Query(ctx, filter, &docstore.Order{Field: "createdAt"}, limit)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения списка статей (repo)", zap.Error(err))
		return nil, err
	}

	list := make([]models.Article, 0, len(recs))
	for _, rec := range recs {
		list = append(list, normalize.Article(rec.ID, rec.Data))
	}
	return list, nil
}

func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	rec, err := r.col.GetByID(ctx, id)
	if err != nil {
		logger.WithCtx(ctx).Warn("Статья не найдена (repo)", zap.String("article_id", id), zap.Error(err))
		return nil, err
	}
	a := normalize.Article(rec.ID, rec.Data)
	return &a, nil
}

func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	rec, err := r.col.FindOneByField(ctx, "slug", slug)
	if err != nil {
		logger.WithCtx(ctx).Warn("Статья по slug не найдена (repo)", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	a := normalize.Article(rec.ID, rec.Data)
	return &a, nil
}

func (r *articleRepo) Create(ctx context.Context, a models.Article, image *filestore.Upload) (*models.Article, error) {
	log := logger.WithCtx(ctx)

	if image != nil {
		url, err := r.blobs.Save(colArticles, image)
		if err != nil {
			log.Error("Ошибка загрузки картинки статьи (repo)", zap.Error(err))
			return nil, err
		}
		a.ImageURL = url
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	doc := docFrom(a)
	id, err := r.col.Insert(ctx, doc)
	if err != nil {
		log.Error("Ошибка создания статьи (repo)", zap.Error(err))
		return nil, err
	}

	created := normalize.Article(id, doc)
	return &created, nil
}

func (r *articleRepo) Update(ctx context.Context, id string, patch map[string]interface{}, image *filestore.Upload) (*models.Article, error) {
	log := logger.WithCtx(ctx)

	if image != nil {
		url, err := r.blobs.Save(colArticles, image)
		if err != nil {
			log.Error("Ошибка загрузки картинки статьи (repo)", zap.Error(err))
			return nil, err
		}
		patch["imageUrl"] = url
	}
	patch["updatedAt"] = time.Now().UTC()

	if err := r.col.MergePatch(ctx, id, patch); err != nil {
		log.Error("Ошибка обновления статьи (repo)", zap.String("article_id", id), zap.Error(err))
		return nil, err
	}

	// читаем обратно уже слитую запись
	return r.GetByID(ctx, id)
}

func (r *articleRepo) Delete(ctx context.Context, id string) error {
	if err := r.col.Delete(ctx, id); err != nil {
		logger.WithCtx(ctx).Error("Ошибка удаления статьи (repo)", zap.String("article_id", id), zap.Error(err))
		return err
	}
	return nil
}

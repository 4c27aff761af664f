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

type CategoryRepo interface {
	List(ctx context.Context, limit int) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, c models.Category, image *filestore.Upload) (*models.Category, error)
	Update(ctx context.Context, id string, patch map[string]interface{}, image *filestore.Upload) (*models.Category, error)
	Delete(ctx context.Context, id string) error
	AdjustArticleCount(ctx context.Context, id string, delta int) (*models.Category, error)
}

type categoryRepo struct {
	col   collection
	blobs blobStore
}

func NewCategoryRepo(store *docstore.Store, blobs blobStore) CategoryRepo {
	return &categoryRepo{col: store.Collection(colCategories), blobs: blobs}
}

func (r *categoryRepo) List(ctx context.Context, limit int) ([]models.Category, error) {
	recs, err := r.col.Query(ctx, nil, &docstore.Order{Field: "name", Asc: true}, limit)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения списка категорий (repo)", zap.Error(err))
		return nil, err
	}

	list := make([]models.Category, 0, len(recs))
	for _, rec := range recs {
		list = append(list, normalize.Category(rec.ID, rec.Data))
	}
	return list, nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	rec, err := r.col.GetByID(ctx, id)
	if err != nil {
		logger.WithCtx(ctx).Warn("Категория не найдена (repo)", zap.String("category_id", id), zap.Error(err))
		return nil, err
	}
	c := normalize.Category(rec.ID, rec.Data)
	return &c, nil
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	rec, err := r.col.FindOneByField(ctx, "slug", slug)
	if err != nil {
		logger.WithCtx(ctx).Warn("Категория по slug не найдена (repo)", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	c := normalize.Category(rec.ID, rec.Data)
	return &c, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	rec, err := r.col.FindOneByField(ctx, "name", name)
	if err != nil {
		return nil, err
	}
	c := normalize.Category(rec.ID, rec.Data)
	return &c, nil
}

func (r *categoryRepo) Create(ctx context.Context, c models.Category, image *filestore.Upload) (*models.Category, error) {
	log := logger.WithCtx(ctx)

	if image != nil {
		url, err := r.blobs.Save(colCategories, image)
		if err != nil {
			log.Error("Ошибка загрузки картинки категории (repo)", zap.Error(err))
			return nil, err
		}
		c.ImageURL = url
	}

	c.ArticleCount = 0
	c.CreatedAt = time.Now().UTC()

	doc := docFrom(c)
	id, err := r.col.Insert(ctx, doc)
	if err != nil {
		log.Error("Ошибка создания категории (repo)", zap.Error(err))
		return nil, err
	}

	created := normalize.Category(id, doc)
	return &created, nil
}

func (r *categoryRepo) Update(ctx context.Context, id string, patch map[string]interface{}, image *filestore.Upload) (*models.Category, error) {
	log := logger.WithCtx(ctx)

	if image != nil {
		url, err := r.blobs.Save(colCategories, image)
		if err != nil {
			log.Error("Ошибка загрузки картинки категории (repo)", zap.Error(err))
			return nil, err
		}
		patch["imageUrl"] = url
	}

	if err := r.col.MergePatch(ctx, id, patch); err != nil {
		log.Error("Ошибка обновления категории (repo)", zap.String("category_id", id), zap.Error(err))
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	if err := r.col.Delete(ctx, id); err != nil {
		logger.WithCtx(ctx).Error("Ошибка удаления категории (repo)", zap.String("category_id", id), zap.Error(err))
		return err
	}
	return nil
}

// AdjustArticleCount сдвигает денормализованный счётчик статей.
// Итог никогда не уходит ниже нуля.
func (r *categoryRepo) AdjustArticleCount(ctx context.Context, id string, delta int) (*models.Category, error) {
	rec, err := r.col.GetByID(ctx, id)
	if err != nil {
		logger.WithCtx(ctx).Warn("Категория для пересчёта не найдена (repo)", zap.String("category_id", id), zap.Error(err))
		return nil, err
	}

	current := normalize.Category(rec.ID, rec.Data)
	next := current.ArticleCount + delta
	if next < 0 {
		next = 0
	}

	if err := r.col.MergePatch(ctx, id, map[string]interface{}{"articleCount": next}); err != nil {
		logger.WithCtx(ctx).Error("Ошибка пересчёта статей категории (repo)", zap.String("category_id", id), zap.Error(err))
		return nil, err
	}

	current.ArticleCount = next
	return &current, nil
}

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

type ResourceRepo interface {
	List(ctx context.Context, filter *docstore.Filter, limit int) ([]models.Resource, error)
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	Create(ctx context.Context, res models.Resource, file *filestore.Upload) (*models.Resource, error)
	Update(ctx context.Context, id string, patch map[string]interface{}, file *filestore.Upload) (*models.Resource, error)
	Delete(ctx context.Context, id string) error
	IncrementDownloads(ctx context.Context, id string) (*models.Resource, error)
}

type resourceRepo struct {
	col   collection
	blobs blobStore
}

func NewResourceRepo(store *docstore.Store, blobs blobStore) ResourceRepo {
	return &resourceRepo{col: store.Collection(colResources), blobs: blobs}
}

func (r *resourceRepo) List(ctx context.Context, filter *docstore.Filter, limit int) ([]models.Resource, error) {
	recs, err := r.col.Query(ctx, filter, &docstore.Order{Field: "createdAt"}, limit)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения списка ресурсов (repo)", zap.Error(err))
		return nil, err
	}

	list := make([]models.Resource, 0, len(recs))
	for _, rec := range recs {
		list = append(list, normalize.Resource(rec.ID, rec.Data))
	}
	return list, nil
}

func (r *resourceRepo) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	rec, err := r.col.GetByID(ctx, id)
	if err != nil {
		logger.WithCtx(ctx).Warn("Ресурс не найден (repo)", zap.String("resource_id", id), zap.Error(err))
		return nil, err
	}
	res := normalize.Resource(rec.ID, rec.Data)
	return &res, nil
}

func (r *resourceRepo) Create(ctx context.Context, res models.Resource, file *filestore.Upload) (*models.Resource, error) {
	log := logger.WithCtx(ctx)

	if file != nil {
		url, err := r.blobs.Save(colResources, file)
		if err != nil {
			log.Error("Ошибка загрузки файла ресурса (repo)", zap.Error(err))
			return nil, err
		}
		res.FileURL = url
	}

	res.DownloadCount = 0
	res.CreatedAt = time.Now().UTC()

	doc := docFrom(res)
	id, err := r.col.Insert(ctx, doc)
	if err != nil {
		log.Error("Ошибка создания ресурса (repo)", zap.Error(err))
		return nil, err
	}

	created := normalize.Resource(id, doc)
	return &created, nil
}

func (r *resourceRepo) Update(ctx context.Context, id string, patch map[string]interface{}, file *filestore.Upload) (*models.Resource, error) {
	log := logger.WithCtx(ctx)

	if file != nil {
		url, err := r.blobs.Save(colResources, file)
		if err != nil {
			log.Error("Ошибка загрузки файла ресурса (repo)", zap.Error(err))
			return nil, err
		}
		patch["fileUrl"] = url
	}

	if err := r.col.MergePatch(ctx, id, patch); err != nil {
		log.Error("Ошибка обновления ресурса (repo)", zap.String("resource_id", id), zap.Error(err))
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *resourceRepo) Delete(ctx context.Context, id string) error {
	if err := r.col.Delete(ctx, id); err != nil {
		logger.WithCtx(ctx).Error("Ошибка удаления ресурса (repo)", zap.String("resource_id", id), zap.Error(err))
		return err
	}
	return nil
}

// IncrementDownloads увеличивает счётчик скачиваний на единицу.
func (r *resourceRepo) IncrementDownloads(ctx context.Context, id string) (*models.Resource, error) {
	rec, err := r.col.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := normalize.Resource(rec.ID, rec.Data)
	res.DownloadCount++

	if err := r.col.MergePatch(ctx, id, map[string]interface{}{"downloadCount": res.DownloadCount}); err != nil {
		logger.WithCtx(ctx).Error("Ошибка обновления счётчика скачиваний (repo)",
			zap.String("resource_id", id), zap.Error(err))
		return nil, err
	}
	return &res, nil
}

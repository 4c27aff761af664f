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

type ProfileRepo interface {
	List(ctx context.Context, limit int) ([]models.UserProfile, error)
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	// Set пишет профиль под id учётной записи (upsert).
	Set(ctx context.Context, id string, p models.UserProfile) error
	Update(ctx context.Context, id string, patch map[string]interface{}) (*models.UserProfile, error)
	// GetRole — best-effort: при отсутствии профиля или ошибке чтения
	// возвращается роль user, ошибка наверх не идёт.
	GetRole(ctx context.Context, id string) string
}

type profileRepo struct {
	col collection
}

func NewProfileRepo(store *docstore.Store) ProfileRepo {
	return &profileRepo{col: store.Collection(colUsers)}
}

func (r *profileRepo) List(ctx context.Context, limit int) ([]models.UserProfile, error) {
	recs, err := r.col.Query(ctx, nil, &docstore.Order{Field: "name", Asc: true}, limit)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения списка профилей (repo)", zap.Error(err))
		return nil, err
	}

	list := make([]models.UserProfile, 0, len(recs))
	for _, rec := range recs {
		list = append(list, normalize.Profile(rec.ID, rec.Data))
	}
	return list, nil
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	rec, err := r.col.GetByID(ctx, id)
	if err != nil {
		logger.WithCtx(ctx).Warn("Профиль не найден (repo)", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	p := normalize.Profile(rec.ID, rec.Data)
	return &p, nil
}

func (r *profileRepo) Set(ctx context.Context, id string, p models.UserProfile) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.SavedArticles == nil {
		p.SavedArticles = []string{}
	}
	if p.BookmarkedResources == nil {
		p.BookmarkedResources = []string{}
	}

	if err := r.col.Set(ctx, id, docFrom(p)); err != nil {
		logger.WithCtx(ctx).Error("Ошибка записи профиля (repo)", zap.String("user_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (r *profileRepo) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.UserProfile, error) {
	if err := r.col.MergePatch(ctx, id, patch); err != nil {
		logger.WithCtx(ctx).Error("Ошибка обновления профиля (repo)", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *profileRepo) GetRole(ctx context.Context, id string) string {
	rec, err := r.col.GetByID(ctx, id)
	if err != nil {
		// недоступный профиль не блокирует вход — только не повышает роль
		logger.WithCtx(ctx).Warn("Роль не разрешена, используется user (repo)",
			zap.String("user_id", id), zap.Error(err))
		return "user"
	}
	return normalize.Profile(rec.ID, rec.Data).Role
}

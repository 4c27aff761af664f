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

type IdentityRepo interface {
	GetByID(ctx context.Context, id string) (*models.Identity, error)
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)
	Create(ctx context.Context, email, passwordHash, displayName string) (*models.Identity, error)
	SetDisplayName(ctx context.Context, id, displayName string) error
}

type identityRepo struct {
	col collection
}

func NewIdentityRepo(store *docstore.Store) IdentityRepo {
	return &identityRepo{col: store.Collection(colIdentities)}
}

func (r *identityRepo) GetByID(ctx context.Context, id string) (*models.Identity, error) {
	rec, err := r.col.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ident := normalize.Identity(rec.ID, rec.Data)
	return &ident, nil
}

func (r *identityRepo) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	rec, err := r.col.FindOneByField(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	ident := normalize.Identity(rec.ID, rec.Data)
	return &ident, nil
}

func (r *identityRepo) Create(ctx context.Context, email, passwordHash, displayName string) (*models.Identity, error) {
	now := time.Now().UTC()
	// passwordHash в json-теге модели скрыт, документ собираем вручную
	doc := map[string]interface{}{
		"email":        email,
		"displayName":  displayName,
		"passwordHash": passwordHash,
		"createdAt":    now,
	}

	id, err := r.col.Insert(ctx, doc)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка создания учётной записи (repo)", zap.Error(err))
		return nil, err
	}

	ident := normalize.Identity(id, doc)
	return &ident, nil
}

func (r *identityRepo) SetDisplayName(ctx context.Context, id, displayName string) error {
	if err := r.col.MergePatch(ctx, id, map[string]interface{}{"displayName": displayName}); err != nil {
		logger.WithCtx(ctx).Error("Ошибка обновления имени учётной записи (repo)",
			zap.String("identity_id", id), zap.Error(err))
		return err
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"strings"

	"edunewshub/internal/apperrors"
	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/repository"

	"go.uber.org/zap"
)

type ProfileService interface {
	Get(ctx context.Context, id string) (*models.UserProfile, error)
	Update(ctx context.Context, id string, req models.UpdateProfileRequest) (*models.UserProfile, error)
	// ToggleSavedArticle добавляет или убирает статью из сохранённых;
	// второй результат — состояние после переключения (true = сохранена).
	ToggleSavedArticle(ctx context.Context, id, articleID string) (*models.UserProfile, bool, error)
	ToggleBookmarkedResource(ctx context.Context, id, resourceID string) (*models.UserProfile, bool, error)
	List(ctx context.Context, limit int) ([]models.UserProfile, error)
	SetRole(ctx context.Context, id, role string) (*models.UserProfile, error)
}

type profileService struct {
	repo repository.ProfileRepo
}

func NewProfileService(repo repository.ProfileRepo) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *profileService) Update(ctx context.Context, id string, req models.UpdateProfileRequest) (*models.UserProfile, error) {
	log := logger.WithCtx(ctx)

	patch := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: имя не может быть пустым", apperrors.ErrValidation)
		}
		patch["name"] = name
	}
	if req.Bio != nil {
		patch["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.ProfileImageURL != nil {
		patch["profileImageUrl"] = *req.ProfileImageURL
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: нет полей для обновления", apperrors.ErrValidation)
	}

	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		log.Error("Ошибка обновления профиля (service)", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Профиль обновлён", zap.String("user_id", id))
	return p, nil
}

func (s *profileService) ToggleSavedArticle(ctx context.Context, id, articleID string) (*models.UserProfile, bool, error) {
	return s.toggle(ctx, id, articleID, "savedArticles")
}

func (s *profileService) ToggleBookmarkedResource(ctx context.Context, id, resourceID string) (*models.UserProfile, bool, error) {
	return s.toggle(ctx, id, resourceID, "bookmarkedResources")
}

func (s *profileService) toggle(ctx context.Context, id, itemID, field string) (*models.UserProfile, bool, error) {
	log := logger.WithCtx(ctx)

	if strings.TrimSpace(itemID) == "" {
		return nil, false, fmt.Errorf("%w: пустой идентификатор", apperrors.ErrValidation)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	current := p.SavedArticles
	if field == "bookmarkedResources" {
		current = p.BookmarkedResources
	}

	next := make([]string, 0, len(current)+1)
	added := true
	for _, v := range current {
		if v == itemID {
			added = false
			continue
		}
		next = append(next, v)
	}
	if added {
		next = append(next, itemID)
	}

	p, err = s.repo.Update(ctx, id, map[string]interface{}{field: next})
	if err != nil {
		log.Error("Ошибка переключения закладки (service)",
			zap.String("user_id", id), zap.String("field", field), zap.Error(err))
		return nil, false, err
	}

	log.Info("Закладка переключена",
		zap.String("user_id", id), zap.String("field", field),
		zap.String("item_id", itemID), zap.Bool("added", added))
	return p, added, nil
}

func (s *profileService) List(ctx context.Context, limit int) ([]models.UserProfile, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение списка пользователей", zap.Int("limit", limit))

	list, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	log.Debug("Пользователи получены", zap.Int("count", len(list)))
	return list, nil
}

var validRoles = map[string]struct{}{"user": {}, "editor": {}, "admin": {}}

func (s *profileService) SetRole(ctx context.Context, id, role string) (*models.UserProfile, error) {
	log := logger.WithCtx(ctx)

	role = strings.ToLower(strings.TrimSpace(role))
	if _, ok := validRoles[role]; !ok {
		return nil, fmt.Errorf("%w: недопустимая роль %q", apperrors.ErrValidation, role)
	}

	p, err := s.repo.Update(ctx, id, map[string]interface{}{"role": role})
	if err != nil {
		log.Error("Ошибка смены роли (service)", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Роль изменена", zap.String("user_id", id), zap.String("role", role))
	return p, nil
}

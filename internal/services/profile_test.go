package services

import (
	"context"
	"errors"
	"testing"

	"edunewshub/internal/apperrors"
	"edunewshub/internal/models"
)

// fakeProfileRepo применяет патчи по-настоящему, в отличие от
// mockProfileRepo из session_test.go.
type fakeProfileRepo struct {
	byID map[string]*models.UserProfile
}

func newFakeProfileRepo(profiles ...models.UserProfile) *fakeProfileRepo {
	r := &fakeProfileRepo{byID: map[string]*models.UserProfile{}}
	for i := range profiles {
		p := profiles[i]
		r.byID[p.ID] = &p
	}
	return r
}

func (r *fakeProfileRepo) List(_ context.Context, limit int) ([]models.UserProfile, error) {
	list := make([]models.UserProfile, 0, len(r.byID))
	for _, p := range r.byID {
		list = append(list, *p)
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*models.UserProfile, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) Set(_ context.Context, id string, p models.UserProfile) error {
	p.ID = id
	r.byID[id] = &p
	return nil
}

func (r *fakeProfileRepo) Update(_ context.Context, id string, patch map[string]interface{}) (*models.UserProfile, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	for k, v := range patch {
		switch k {
		case "name":
			p.Name = v.(string)
		case "bio":
			p.Bio = v.(string)
		case "profileImageUrl":
			p.ProfileImageURL = v.(string)
		case "role":
			p.Role = v.(string)
		case "savedArticles":
			p.SavedArticles = v.([]string)
		case "bookmarkedResources":
			p.BookmarkedResources = v.([]string)
		}
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) GetRole(_ context.Context, id string) string {
	if p, ok := r.byID[id]; ok && p.Role != "" {
		return p.Role
	}
	return "user"
}

func strPtr(s string) *string { return &s }

func TestProfileUpdate_EmptyPatchRejected(t *testing.T) {
	repo := newFakeProfileRepo(models.UserProfile{ID: "u1", Name: "Иван"})
	svc := NewProfileService(repo)

	_, err := svc.Update(context.Background(), "u1", models.UpdateProfileRequest{})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("ожидалась ошибка валидации, получено: %v", err)
	}
}

func TestProfileUpdate_EmptyNameRejected(t *testing.T) {
	repo := newFakeProfileRepo(models.UserProfile{ID: "u1", Name: "Иван"})
	svc := NewProfileService(repo)

	_, err := svc.Update(context.Background(), "u1", models.UpdateProfileRequest{Name: strPtr("   ")})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("ожидалась ошибка валидации, получено: %v", err)
	}
	if repo.byID["u1"].Name != "Иван" {
		t.Fatalf("имя не должно было измениться, получено %q", repo.byID["u1"].Name)
	}
}

func TestProfileUpdate_PatchesOnlyProvidedFields(t *testing.T) {
	repo := newFakeProfileRepo(models.UserProfile{ID: "u1", Name: "Иван", Bio: "старое"})
	svc := NewProfileService(repo)

	p, err := svc.Update(context.Background(), "u1", models.UpdateProfileRequest{Bio: strPtr("новое")})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if p.Bio != "новое" {
		t.Errorf("bio не обновилось: %q", p.Bio)
	}
	if p.Name != "Иван" {
		t.Errorf("имя не должно было измениться: %q", p.Name)
	}
}

func TestToggleSavedArticle_AddThenRemove(t *testing.T) {
	repo := newFakeProfileRepo(models.UserProfile{ID: "u1"})
	svc := NewProfileService(repo)
	ctx := context.Background()

	p, added, err := svc.ToggleSavedArticle(ctx, "u1", "a1")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if !added {
		t.Fatal("ожидалось added=true после первого переключения")
	}
	if len(p.SavedArticles) != 1 || p.SavedArticles[0] != "a1" {
		t.Fatalf("неверный список сохранённых: %v", p.SavedArticles)
	}

	p, added, err = svc.ToggleSavedArticle(ctx, "u1", "a1")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if added {
		t.Fatal("ожидалось added=false после повторного переключения")
	}
	if len(p.SavedArticles) != 0 {
		t.Fatalf("статья должна была удалиться: %v", p.SavedArticles)
	}
}

func TestToggleBookmarkedResource_KeepsOtherEntries(t *testing.T) {
	repo := newFakeProfileRepo(models.UserProfile{
		ID:                  "u1",
		BookmarkedResources: []string{"r1", "r2", "r3"},
	})
	svc := NewProfileService(repo)

	p, added, err := svc.ToggleBookmarkedResource(context.Background(), "u1", "r2")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if added {
		t.Fatal("ожидалось added=false: ресурс уже был в закладках")
	}
	want := []string{"r1", "r3"}
	if len(p.BookmarkedResources) != len(want) {
		t.Fatalf("неверный список закладок: %v", p.BookmarkedResources)
	}
	for i, v := range want {
		if p.BookmarkedResources[i] != v {
			t.Fatalf("неверный список закладок: %v", p.BookmarkedResources)
		}
	}
}

func TestToggle_EmptyIDRejected(t *testing.T) {
	repo := newFakeProfileRepo(models.UserProfile{ID: "u1"})
	svc := NewProfileService(repo)

	_, _, err := svc.ToggleSavedArticle(context.Background(), "u1", "  ")
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("ожидалась ошибка валидации, получено: %v", err)
	}
}

func TestSetRole_ValidatesRole(t *testing.T) {
	repo := newFakeProfileRepo(models.UserProfile{ID: "u1", Role: "user"})
	svc := NewProfileService(repo)
	ctx := context.Background()

	if _, err := svc.SetRole(ctx, "u1", "superadmin"); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("ожидалась ошибка валидации, получено: %v", err)
	}

	p, err := svc.SetRole(ctx, "u1", " Editor ")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if p.Role != "editor" {
		t.Errorf("роль должна нормализоваться к editor, получено %q", p.Role)
	}
}

func TestSetRole_UnknownUser(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo())

	_, err := svc.SetRole(context.Background(), "нет-такого", "admin")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("ожидалась ошибка not found, получено: %v", err)
	}
}

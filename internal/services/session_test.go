package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"edunewshub/internal/apperrors"
	"edunewshub/internal/models"
	"edunewshub/internal/utils"
)

type mockIdentityRepo struct {
	byEmail    map[string]*models.Identity
	created    []*models.Identity
	failCreate bool
}

func newMockIdentityRepo() *mockIdentityRepo {
	return &mockIdentityRepo{byEmail: map[string]*models.Identity{}}
}

func (m *mockIdentityRepo) GetByID(_ context.Context, id string) (*models.Identity, error) {
	for _, ident := range m.byEmail {
		if ident.ID == id {
			return ident, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockIdentityRepo) GetByEmail(_ context.Context, email string) (*models.Identity, error) {
	if ident, ok := m.byEmail[email]; ok {
		return ident, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockIdentityRepo) Create(_ context.Context, email, passwordHash, displayName string) (*models.Identity, error) {
	if m.failCreate {
		return nil, errors.New("хранилище недоступно")
	}
	ident := &models.Identity{
		ID:           "ident-1",
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	m.byEmail[email] = ident
	m.created = append(m.created, ident)
	return ident, nil
}

func (m *mockIdentityRepo) SetDisplayName(_ context.Context, id, displayName string) error {
	for _, ident := range m.byEmail {
		if ident.ID == id {
			ident.DisplayName = displayName
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type mockProfileRepo struct {
	set     map[string]models.UserProfile
	roles   map[string]string
	release chan struct{} // если не nil, GetRole ждёт сигнала
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{set: map[string]models.UserProfile{}, roles: map[string]string{}}
}

func (m *mockProfileRepo) List(_ context.Context, _ int) ([]models.UserProfile, error) {
	list := make([]models.UserProfile, 0, len(m.set))
	for _, p := range m.set {
		list = append(list, p)
	}
	return list, nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, id string) (*models.UserProfile, error) {
	if p, ok := m.set[id]; ok {
		return &p, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockProfileRepo) Set(_ context.Context, id string, p models.UserProfile) error {
	p.ID = id
	m.set[id] = p
	return nil
}

func (m *mockProfileRepo) Update(_ context.Context, id string, _ map[string]interface{}) (*models.UserProfile, error) {
	if p, ok := m.set[id]; ok {
		return &p, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockProfileRepo) GetRole(_ context.Context, id string) string {
	if m.release != nil {
		<-m.release
	}
	if role, ok := m.roles[id]; ok {
		return role
	}
	return "user"
}

func newSessionForTest(idents *mockIdentityRepo, profiles *mockProfileRepo) *SessionService {
	return NewSessionService(idents, profiles, "test-secret", time.Hour)
}

func waitSession(t *testing.T, ch <-chan Session, ok func(Session) bool) Session {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-ch:
			if ok(s) {
				return s
			}
		case <-deadline:
			t.Fatal("не дождались ожидаемого состояния сессии")
		}
	}
}

func TestRegister_WritesProfileWithUserRole(t *testing.T) {
	idents := newMockIdentityRepo()
	profiles := newMockProfileRepo()
	svc := newSessionForTest(idents, profiles)

	ident, err := svc.Register(context.Background(), "user@example.com", "secret123", "Иван")
	if err != nil {
		t.Fatalf("регистрация не должна падать: %v", err)
	}
	if ident.DisplayName != "Иван" {
		t.Errorf("имя не установлено: %q", ident.DisplayName)
	}

	p, ok := profiles.set[ident.ID]
	if !ok {
		t.Fatal("сопутствующий профиль не записан")
	}
	if p.Role != "user" {
		t.Errorf("роль нового профиля должна быть user, получили %q", p.Role)
	}
	if p.Email != "user@example.com" {
		t.Errorf("email профиля: %q", p.Email)
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	idents := newMockIdentityRepo()
	profiles := newMockProfileRepo()
	svc := newSessionForTest(idents, profiles)

	if _, err := svc.Register(context.Background(), "user@example.com", "secret123", "Иван"); err != nil {
		t.Fatalf("первая регистрация: %v", err)
	}
	_, err := svc.Register(context.Background(), "user@example.com", "secret456", "Пётр")
	if !errors.Is(err, apperrors.ErrRegistration) {
		t.Errorf("повторный email должен давать ErrRegistration, получили %v", err)
	}
}

func TestRegister_NoProfileWhenIdentityFails(t *testing.T) {
	idents := newMockIdentityRepo()
	idents.failCreate = true
	profiles := newMockProfileRepo()
	svc := newSessionForTest(idents, profiles)

	_, err := svc.Register(context.Background(), "user@example.com", "secret123", "Иван")
	if !errors.Is(err, apperrors.ErrRegistration) {
		t.Fatalf("ожидали ErrRegistration, получили %v", err)
	}
	if len(profiles.set) != 0 {
		t.Error("профиль не должен записываться при ошибке создания учётной записи")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	idents := newMockIdentityRepo()
	profiles := newMockProfileRepo()
	svc := newSessionForTest(idents, profiles)

	hash, _ := utils.HashPassword("secret123")
	idents.byEmail["user@example.com"] = &models.Identity{ID: "ident-1", Email: "user@example.com", PasswordHash: hash}

	_, _, err := svc.Login(context.Background(), "user@example.com", "wrong")
	if !errors.Is(err, apperrors.ErrAuthentication) {
		t.Errorf("неверный пароль должен давать ErrAuthentication, получили %v", err)
	}
	if svc.Current().Phase == PhaseAuthenticated {
		t.Error("неудачный вход не должен менять состояние на Authenticated")
	}
}

func TestLogin_ResolvesRoleAsync(t *testing.T) {
	idents := newMockIdentityRepo()
	profiles := newMockProfileRepo()
	svc := newSessionForTest(idents, profiles)

	hash, _ := utils.HashPassword("secret123")
	idents.byEmail["admin@example.com"] = &models.Identity{ID: "ident-1", Email: "admin@example.com", PasswordHash: hash}
	profiles.roles["ident-1"] = "admin"

	ch, unsubscribe := svc.Subscribe()
	defer unsubscribe()

	token, ident, err := svc.Login(context.Background(), "admin@example.com", "secret123")
	if err != nil {
		t.Fatalf("вход не должен падать: %v", err)
	}
	if token == "" {
		t.Error("токен пуст")
	}
	if ident.ID != "ident-1" {
		t.Errorf("identity: %q", ident.ID)
	}

	// сразу после входа роль ещё user, затем приходит admin
	s := waitSession(t, ch, func(s Session) bool {
		return s.Phase == PhaseAuthenticated && s.Role == "admin"
	})
	if s.Identity == nil || s.Identity.ID != "ident-1" {
		t.Error("в состоянии Authenticated нет identity")
	}
}

func TestLogout_DiscardsStaleRoleResolution(t *testing.T) {
	idents := newMockIdentityRepo()
	profiles := newMockProfileRepo()
	profiles.release = make(chan struct{})
	svc := newSessionForTest(idents, profiles)

	hash, _ := utils.HashPassword("secret123")
	idents.byEmail["admin@example.com"] = &models.Identity{ID: "ident-1", Email: "admin@example.com", PasswordHash: hash}
	profiles.roles["ident-1"] = "admin"

	if _, _, err := svc.Login(context.Background(), "admin@example.com", "secret123"); err != nil {
		t.Fatalf("вход: %v", err)
	}

	// выходим, пока разрешение роли ещё висит
	svc.Logout(context.Background())
	close(profiles.release)

	time.Sleep(100 * time.Millisecond)
	cur := svc.Current()
	if cur.Phase != PhaseAnonymous {
		t.Errorf("после выхода ожидали Anonymous, получили %v", cur.Phase)
	}
	if cur.Role != "user" {
		t.Errorf("устаревшая роль не должна применяться, получили %q", cur.Role)
	}
}

func TestSubscribe_UnsubscribeClosesChannel(t *testing.T) {
	svc := newSessionForTest(newMockIdentityRepo(), newMockProfileRepo())

	ch, unsubscribe := svc.Subscribe()
	unsubscribe()

	if _, open := <-ch; open {
		t.Error("после отписки канал должен быть закрыт")
	}
	// повторная отписка безопасна
	unsubscribe()
}

func TestStart_UnknownBecomesAnonymous(t *testing.T) {
	svc := newSessionForTest(newMockIdentityRepo(), newMockProfileRepo())

	if svc.Current().Phase != PhaseUnknown {
		t.Fatal("до Start состояние должно быть Unknown")
	}
	svc.Start()
	if svc.Current().Phase != PhaseAnonymous {
		t.Error("после Start состояние должно быть Anonymous")
	}
}

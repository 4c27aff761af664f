package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"edunewshub/internal/apperrors"
	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/repository"
	"edunewshub/internal/utils"

	"go.uber.org/zap"
)

type SessionPhase int

const (
	// PhaseUnknown — начальное состояние, пока сессия не проверена.
	PhaseUnknown SessionPhase = iota
	PhaseAnonymous
	PhaseAuthenticated
)

// Session — текущее состояние провайдера сессии, рассылаемое подписчикам.
type Session struct {
	Phase    SessionPhase
	Identity *models.Identity
	Role     string
}

// SessionService — провайдер сессии: регистрация, вход, выход и рассылка
// смен состояния. Не синглтон — экземпляр внедряется композиционным корнем.
type SessionService struct {
	identities repository.IdentityRepo
	profiles   repository.ProfileRepo
	jwtSecret  string
	accessTTL  time.Duration

	mu        sync.Mutex
	current   Session
	gen       uint64 // поколение identity: устаревшие разрешения роли отбрасываются
	listeners map[int]chan Session
	nextSub   int
}

func NewSessionService(identities repository.IdentityRepo, profiles repository.ProfileRepo, jwtSecret string, accessTTL time.Duration) *SessionService {
	return &SessionService{
		identities: identities,
		profiles:   profiles,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		current:    Session{Phase: PhaseUnknown, Role: "user"},
		listeners:  map[int]chan Session{},
	}
}

// Start завершает начальную проверку сессии. Серверная сторона не хранит
// сессию между запусками, поэтому Unknown сразу переходит в Anonymous.
func (s *SessionService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.Phase == PhaseUnknown {
		s.transitionLocked(Session{Phase: PhaseAnonymous, Role: "user"})
	}
}

// Current — снимок текущего состояния.
func (s *SessionService) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe подписывает на смены состояния; возвращает канал и функцию отписки.
func (s *SessionService) Subscribe() (<-chan Session, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Session, 8)
	s.listeners[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.listeners[id]; ok {
			delete(s.listeners, id)
			close(c)
		}
	}
}

// Register создаёт учётную запись, проставляет отображаемое имя и пишет
// сопутствующий профиль с ролью user. Если создать учётную запись не
// удалось, профиль не пишется.
func (s *SessionService) Register(ctx context.Context, email, password, displayName string) (*models.Identity, error) {
	log := logger.WithCtx(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(email) {
		return nil, fmt.Errorf("%w: некорректный email", apperrors.ErrRegistration)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: пароль короче 6 символов", apperrors.ErrRegistration)
	}

	log.Info("Регистрация пользователя", zap.String("email", email))

	if _, err := s.identities.GetByEmail(ctx, email); err == nil {
		log.Warn("Регистрация: email уже занят", zap.String("email", email))
		return nil, fmt.Errorf("%w: адрес электронной почты уже зарегистрирован", apperrors.ErrRegistration)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRegistration, err)
	}

	ident, err := s.identities.Create(ctx, email, hash, "")
	if err != nil {
		log.Error("Ошибка создания учётной записи", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRegistration, err)
	}

	if err := s.identities.SetDisplayName(ctx, ident.ID, displayName); err != nil {
		log.Error("Ошибка установки имени", zap.String("identity_id", ident.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRegistration, err)
	}
	ident.DisplayName = displayName

	profile := models.UserProfile{
		Name:  displayName,
		Email: email,
		Role:  "user",
	}
	if err := s.profiles.Set(ctx, ident.ID, profile); err != nil {
		log.Error("Ошибка записи профиля при регистрации", zap.String("identity_id", ident.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRegistration, err)
	}

	log.Info("Пользователь зарегистрирован", zap.String("identity_id", ident.ID))
	return ident, nil
}

// Login аутентифицирует и выдаёт access-токен. Роль здесь не читается:
// её разрешает слушатель смены состояния, best-effort.
func (s *SessionService) Login(ctx context.Context, email, password string) (string, *models.Identity, error) {
	log := logger.WithCtx(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	log.Info("Попытка входа", zap.String("email", email))

	ident, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		log.Warn("Вход: пользователь не найден", zap.String("email", email), zap.Error(err))
		return "", nil, apperrors.ErrAuthentication
	}

	if !utils.CheckPasswordHash(password, ident.PasswordHash) {
		log.Warn("Вход: неверный пароль", zap.String("email", email))
		return "", nil, apperrors.ErrAuthentication
	}

	token, err := utils.GenerateToken(s.jwtSecret, ident.ID, s.accessTTL)
	if err != nil {
		log.Error("Ошибка генерации access-токена", zap.Error(err))
		return "", nil, err
	}

	s.setAuthenticated(ctx, ident)

	log.Info("Вход выполнен", zap.String("identity_id", ident.ID))
	return token, ident, nil
}

// Logout сбрасывает состояние в Anonymous.
func (s *SessionService) Logout(ctx context.Context) {
	logger.WithCtx(ctx).Info("Выход из сессии")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.transitionLocked(Session{Phase: PhaseAnonymous, Role: "user"})
}

func (s *SessionService) setAuthenticated(ctx context.Context, ident *models.Identity) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.transitionLocked(Session{Phase: PhaseAuthenticated, Identity: ident, Role: "user"})
	s.mu.Unlock()

	// разрешение роли не должно блокировать переход
	go s.resolveRole(context.WithoutCancel(ctx), ident.ID, gen)
}

// resolveRole читает роль профиля best-effort. Если identity сменилась,
// пока шло чтение, устаревший результат отбрасывается.
func (s *SessionService) resolveRole(ctx context.Context, identityID string, gen uint64) {
	role := s.profiles.GetRole(ctx, identityID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		logger.WithCtx(ctx).Debug("Устаревшее разрешение роли отброшено",
			zap.String("identity_id", identityID), zap.String("role", role))
		return
	}

	next := s.current
	next.Role = role
	s.transitionLocked(next)
}

// transitionLocked публикует новое состояние; вызывается под mu.
func (s *SessionService) transitionLocked(next Session) {
	s.current = next
	for _, ch := range s.listeners {
		select {
		case ch <- next:
		default:
			// медленный подписчик пропускает промежуточное состояние
		}
	}
}

package handlers

import (
	"encoding/json"
	"net/http"

	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/reqctx"
	"edunewshub/internal/services"
	"edunewshub/internal/utils/helpers"

	"go.uber.org/zap"
)

type AuthHandler struct {
	sessions *services.SessionService
	profiles services.ProfileService
}

func NewAuthHandler(sessions *services.SessionService, profiles services.ProfileService) *AuthHandler {
	return &AuthHandler{sessions: sessions, profiles: profiles}
}

type loginResponse struct {
	AccessToken string           `json:"access_token"`
	User        *models.Identity `json:"user"`
}

// Register godoc
// @Summary Регистрация пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.RegisterRequest true "Данные регистрации"
// @Success 201 {object} models.Identity
// @Failure 400 {string} string "Ошибка регистрации"
// @Router /api/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger.WithCtx(r.Context()).Info("Запрос на регистрацию")

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON при регистрации", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	ident, err := h.sessions.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		serviceError(w, err, "Ошибка регистрации")
		return
	}

	helpers.JSON(w, http.StatusCreated, ident)
}

// Login godoc
// @Summary Вход пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.LoginRequest true "Данные входа"
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "Неверный email или пароль"
// @Router /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger.WithCtx(r.Context()).Info("Запрос на вход")

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON при входе", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	token, ident, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		serviceError(w, err, "Ошибка входа")
		return
	}

	helpers.JSON(w, http.StatusOK, loginResponse{AccessToken: token, User: ident})
}

// Logout godoc
// @Summary Выход
// @Tags auth
// @Security ApiKeyAuth
// @Success 200 {string} string "Вы вышли из системы"
// @Router /api/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())
	helpers.JSON(w, http.StatusOK, "Вы вышли из системы")
}

// Profile godoc
// @Summary Профиль текущего пользователя
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.UserProfile
// @Failure 404 {string} string "Профиль не найден"
// @Router /api/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет авторизации")
		return
	}

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		serviceError(w, err, "Ошибка получения профиля")
		return
	}

	helpers.JSON(w, http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Обновить профиль текущего пользователя
// @Tags auth
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.UpdateProfileRequest true "Изменяемые поля"
// @Success 200 {object} models.UserProfile
// @Router /api/profile [patch]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет авторизации")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	profile, err := h.profiles.Update(r.Context(), userID, req)
	if err != nil {
		serviceError(w, err, "Ошибка обновления профиля")
		return
	}

	helpers.JSON(w, http.StatusOK, profile)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"edunewshub/internal/reqctx"
	"edunewshub/internal/services"
	"edunewshub/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	profiles services.ProfileService
}

func NewUserHandler(profiles services.ProfileService) *UserHandler {
	return &UserHandler{profiles: profiles}
}

type toggleResponse struct {
	Added bool `json:"added"`
}

// ToggleSavedArticle godoc
// @Summary Сохранить или убрать статью из сохранённых
// @Tags profile
// @Security ApiKeyAuth
// @Produce json
// @Param articleId path string true "ID статьи"
// @Success 200 {object} toggleResponse
// @Router /api/profile/saved/{articleId} [post]
func (h *UserHandler) ToggleSavedArticle(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет авторизации")
		return
	}

	_, added, err := h.profiles.ToggleSavedArticle(r.Context(), userID, mux.Vars(r)["articleId"])
	if err != nil {
		serviceError(w, err, "Ошибка сохранения статьи")
		return
	}

	helpers.JSON(w, http.StatusOK, toggleResponse{Added: added})
}

// ToggleBookmarkedResource godoc
// @Summary Добавить или убрать ресурс из закладок
// @Tags profile
// @Security ApiKeyAuth
// @Produce json
// @Param resourceId path string true "ID ресурса"
// @Success 200 {object} toggleResponse
// @Router /api/profile/bookmarks/{resourceId} [post]
func (h *UserHandler) ToggleBookmarkedResource(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет авторизации")
		return
	}

	_, added, err := h.profiles.ToggleBookmarkedResource(r.Context(), userID, mux.Vars(r)["resourceId"])
	if err != nil {
		serviceError(w, err, "Ошибка добавления закладки")
		return
	}

	helpers.JSON(w, http.StatusOK, toggleResponse{Added: added})
}

// ListUsers godoc
// @Summary Список пользователей
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Лимит"
// @Success 200 {array} models.UserProfile
// @Router /api/admin/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	users, err := h.profiles.List(r.Context(), limit)
	if err != nil {
		serviceError(w, err, "Ошибка получения пользователей")
		return
	}

	helpers.JSON(w, http.StatusOK, users)
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// SetUserRole godoc
// @Summary Изменить роль пользователя
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "ID пользователя"
// @Param input body setRoleRequest true "Новая роль"
// @Success 200 {object} models.UserProfile
// @Failure 400 {string} string "Недопустимая роль"
// @Router /api/admin/users/{id}/role [patch]
func (h *UserHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	profile, err := h.profiles.SetRole(r.Context(), mux.Vars(r)["id"], req.Role)
	if err != nil {
		serviceError(w, err, "Ошибка изменения роли")
		return
	}

	helpers.JSON(w, http.StatusOK, profile)
}

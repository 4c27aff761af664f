package handlers

import (
	"encoding/json"
	"net/http"

	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/repository"
	"edunewshub/internal/reqctx"
	"edunewshub/internal/services"
	"edunewshub/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type CommentHandler struct {
	comments services.CommentService
	profiles repository.ProfileRepo
}

func NewCommentHandler(comments services.CommentService, profiles repository.ProfileRepo) *CommentHandler {
	return &CommentHandler{comments: comments, profiles: profiles}
}

// CreateComment godoc
// @Summary Оставить комментарий
// @Tags comments
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.CreateCommentRequest true "Комментарий"
// @Success 201 {object} models.Comment
// @Failure 400 {string} string "Ошибка запроса"
// @Router /api/comments [post]
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	logger.WithCtx(r.Context()).Info("Запрос на создание комментария")

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	userID, _ := reqctx.GetUserID(r.Context())
	userName := displayName(r, h.profiles, userID)

	comment, err := h.comments.Create(r.Context(), userID, userName, req)
	if err != nil {
		serviceError(w, err, "Ошибка создания комментария")
		return
	}

	helpers.JSON(w, http.StatusCreated, comment)
}

// UpdateComment godoc
// @Summary Изменить свой комментарий (или любой — admin)
// @Tags comments
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "ID комментария"
// @Param input body models.UpdateCommentRequest true "Новый текст"
// @Success 200 {object} models.Comment
// @Failure 403 {string} string "Доступ запрещён"
// @Router /api/comments/{id} [patch]
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	userID, _ := reqctx.GetUserID(r.Context())
	role, _ := reqctx.GetRole(r.Context())

	comment, err := h.comments.Update(r.Context(), id, userID, role, req.Content)
	if err != nil {
		serviceError(w, err, "Ошибка обновления комментария")
		return
	}

	helpers.JSON(w, http.StatusOK, comment)
}

// DeleteComment godoc
// @Summary Удалить свой комментарий (или любой — admin)
// @Tags comments
// @Security ApiKeyAuth
// @Param id path string true "ID комментария"
// @Success 200 {string} string "Удалено"
// @Failure 403 {string} string "Доступ запрещён"
// @Router /api/comments/{id} [delete]
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	userID, _ := reqctx.GetUserID(r.Context())
	role, _ := reqctx.GetRole(r.Context())

	if err := h.comments.Delete(r.Context(), id, userID, role); err != nil {
		serviceError(w, err, "Ошибка удаления комментария")
		return
	}

	logger.WithCtx(r.Context()).Info("Комментарий удалён", zap.String("comment_id", id))
	helpers.JSON(w, http.StatusOK, "Удалено")
}

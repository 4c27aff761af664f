package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/services"
	"edunewshub/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type NewsletterHandler struct {
	newsletter services.NewsletterService
}

func NewNewsletterHandler(newsletter services.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletter: newsletter}
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

type setCategoriesRequest struct {
	Categories []string `json:"categories"`
}

// Subscribe godoc
// @Summary Подписаться на рассылку
// @Tags newsletter
// @Accept json
// @Produce json
// @Param input body models.SubscribeRequest true "Email подписчика"
// @Success 201 {object} models.NewsletterSubscriber
// @Failure 409 {string} string "Этот email уже подписан"
// @Router /newsletter/subscribe [post]
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	logger.WithCtx(r.Context()).Info("Запрос на подписку на рассылку")

	var req models.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	sub, err := h.newsletter.Subscribe(r.Context(), req)
	if err != nil {
		serviceError(w, err, "Ошибка подписки")
		return
	}

	helpers.JSON(w, http.StatusCreated, sub)
}

// ListSubscribers godoc
// @Summary Список подписчиков (только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Максимум записей"
// @Success 200 {array} models.NewsletterSubscriber
// @Router /api/admin/newsletter [get]
func (h *NewsletterHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	subs, err := h.newsletter.List(r.Context(), limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения подписчиков", zap.Error(err))
		serviceError(w, err, "Ошибка получения подписчиков")
		return
	}

	helpers.JSON(w, http.StatusOK, subs)
}

// SetSubscriberActive godoc
// @Summary Включить/выключить подписку (только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "ID подписчика"
// @Param input body setActiveRequest true "Новый статус"
// @Success 200 {object} models.NewsletterSubscriber
// @Router /api/admin/newsletter/{id}/active [patch]
func (h *NewsletterHandler) SetSubscriberActive(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	sub, err := h.newsletter.SetActive(r.Context(), id, req.Active)
	if err != nil {
		serviceError(w, err, "Ошибка обновления подписки")
		return
	}

	helpers.JSON(w, http.StatusOK, sub)
}

// SetSubscriberCategories godoc
// @Summary Изменить категории подписки (только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "ID подписчика"
// @Param input body setCategoriesRequest true "Категории"
// @Success 200 {object} models.NewsletterSubscriber
// @Router /api/admin/newsletter/{id}/categories [patch]
func (h *NewsletterHandler) SetSubscriberCategories(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req setCategoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	sub, err := h.newsletter.SetCategories(r.Context(), id, req.Categories)
	if err != nil {
		serviceError(w, err, "Ошибка обновления подписки")
		return
	}

	helpers.JSON(w, http.StatusOK, sub)
}

// DeleteSubscriber godoc
// @Summary Удалить подписчика (только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Param id path string true "ID подписчика"
// @Success 200 {string} string "Удалено"
// @Router /api/admin/newsletter/{id} [delete]
func (h *NewsletterHandler) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger.WithCtx(r.Context()).Info("Запрос на удаление подписчика", zap.String("subscriber_id", id))

	if err := h.newsletter.Delete(r.Context(), id); err != nil {
		serviceError(w, err, "Ошибка удаления подписчика")
		return
	}

	helpers.JSON(w, http.StatusOK, "Удалено")
}

package handlers

import (
	"net/http"
	"strconv"

	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/repository"
	"edunewshub/internal/reqctx"
	"edunewshub/internal/services"
	"edunewshub/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ResourceHandler struct {
	resources services.ResourceService
	profiles  repository.ProfileRepo
}

func NewResourceHandler(resources services.ResourceService, profiles repository.ProfileRepo) *ResourceHandler {
	return &ResourceHandler{resources: resources, profiles: profiles}
}

// ListResources godoc
// @Summary Список учебных ресурсов
// @Tags resources
// @Produce json
// @Param category query string false "Категория"
// @Param author query string false "ID автора"
// @Param limit query int false "Максимум записей"
// @Success 200 {array} models.Resource
// @Router /resources [get]
func (h *ResourceHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	author := r.URL.Query().Get("author")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	resources, err := h.resources.List(r.Context(), category, author, limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения ресурсов", zap.Error(err))
		serviceError(w, err, "Ошибка получения ресурсов")
		return
	}

	helpers.JSON(w, http.StatusOK, resources)
}

// GetResource godoc
// @Summary Получить ресурс по ID
// @Tags resources
// @Produce json
// @Param id path string true "ID ресурса"
// @Success 200 {object} models.Resource
// @Failure 404 {string} string "Не найдено"
// @Router /resources/{id} [get]
func (h *ResourceHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	resource, err := h.resources.GetByID(r.Context(), id)
	if err != nil {
		serviceError(w, err, "Ошибка получения ресурса")
		return
	}

	helpers.JSON(w, http.StatusOK, resource)
}

// DownloadResource godoc
// @Summary Скачать ресурс (инкремент счётчика, редирект на файл)
// @Tags resources
// @Param id path string true "ID ресурса"
// @Success 302 {string} string "Редирект на файл"
// @Failure 404 {string} string "Не найдено"
// @Router /resources/{id}/download [get]
func (h *ResourceHandler) DownloadResource(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	resource, err := h.resources.Download(r.Context(), id)
	if err != nil {
		serviceError(w, err, "Ошибка скачивания ресурса")
		return
	}
	if resource.FileURL == "" {
		helpers.Error(w, http.StatusNotFound, "У ресурса нет файла")
		return
	}

	logger.WithCtx(r.Context()).Info("Скачивание ресурса",
		zap.String("resource_id", id), zap.Int("downloads", resource.DownloadCount))
	http.Redirect(w, r, resource.FileURL, http.StatusFound)
}

// CreateResource godoc
// @Summary Добавить ресурс (admin или editor)
// @Tags admin-resources
// @Security ApiKeyAuth
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param input body models.CreateResourceRequest true "Данные ресурса"
// @Success 201 {object} models.Resource
// @Router /api/admin/resources [post]
func (h *ResourceHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	logger.WithCtx(r.Context()).Info("Запрос на добавление ресурса")

	var req models.CreateResourceRequest
	if err := decodePayload(r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный payload")
		return
	}

	file, err := formUpload(r, "file")
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Ошибка чтения файла")
		return
	}

	authorID, _ := reqctx.GetUserID(r.Context())
	authorName := displayName(r, h.profiles, authorID)

	resource, err := h.resources.Create(r.Context(), authorID, authorName, req, file)
	if err != nil {
		serviceError(w, err, "Ошибка добавления ресурса")
		return
	}

	helpers.JSON(w, http.StatusCreated, resource)
}

// UpdateResource godoc
// @Summary Обновить ресурс (admin или editor)
// @Tags admin-resources
// @Security ApiKeyAuth
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID ресурса"
// @Param input body models.UpdateResourceRequest true "Изменяемые поля"
// @Success 200 {object} models.Resource
// @Router /api/admin/resources/{id} [patch]
func (h *ResourceHandler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.UpdateResourceRequest
	if err := decodePayload(r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный payload")
		return
	}

	file, err := formUpload(r, "file")
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Ошибка чтения файла")
		return
	}

	resource, err := h.resources.Update(r.Context(), id, req, file)
	if err != nil {
		serviceError(w, err, "Ошибка обновления ресурса")
		return
	}

	helpers.JSON(w, http.StatusOK, resource)
}

// DeleteResource godoc
// @Summary Удалить ресурс (admin или editor)
// @Tags admin-resources
// @Security ApiKeyAuth
// @Param id path string true "ID ресурса"
// @Success 200 {string} string "Удалено"
// @Router /api/admin/resources/{id} [delete]
func (h *ResourceHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger.WithCtx(r.Context()).Info("Запрос на удаление ресурса", zap.String("resource_id", id))

	if err := h.resources.Delete(r.Context(), id); err != nil {
		serviceError(w, err, "Ошибка удаления ресурса")
		return
	}

	helpers.JSON(w, http.StatusOK, "Удалено")
}

package handlers

import (
	"net/http"
	"strconv"

	"edunewshub/internal/logger"
	"edunewshub/internal/models"
	"edunewshub/internal/services"
	"edunewshub/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	categories services.CategoryService
}

func NewCategoryHandler(categories services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// ListCategories godoc
// @Summary Список категорий
// @Tags categories
// @Produce json
// @Param limit query int false "Максимум записей"
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	categories, err := h.categories.List(r.Context(), limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения категорий", zap.Error(err))
		serviceError(w, err, "Ошибка получения категорий")
		return
	}

	helpers.JSON(w, http.StatusOK, categories)
}

// GetCategory godoc
// @Summary Получить категорию по ID
// @Tags categories
// @Produce json
// @Param id path string true "ID категории"
// @Success 200 {object} models.Category
// @Failure 404 {string} string "Не найдено"
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	category, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		serviceError(w, err, "Ошибка получения категории")
		return
	}

	helpers.JSON(w, http.StatusOK, category)
}

// GetCategoryBySlug godoc
// @Summary Получить категорию по slug
// @Tags categories
// @Produce json
// @Param slug path string true "Slug категории"
// @Success 200 {object} models.Category
// @Failure 404 {string} string "Не найдено"
// @Router /categories/slug/{slug} [get]
func (h *CategoryHandler) GetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	category, err := h.categories.GetBySlug(r.Context(), slug)
	if err != nil {
		serviceError(w, err, "Ошибка получения категории")
		return
	}

	helpers.JSON(w, http.StatusOK, category)
}

// CreateCategory godoc
// @Summary Создать категорию (только admin)
// @Tags admin-categories
// @Security ApiKeyAuth
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param input body models.CreateCategoryRequest true "Данные категории"
// @Success 201 {object} models.Category
// @Router /api/admin/categories [post]
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	logger.WithCtx(r.Context()).Info("Запрос на создание категории")

	var req models.CreateCategoryRequest
	if err := decodePayload(r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный payload")
		return
	}

	image, err := formUpload(r, "image")
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Ошибка чтения файла")
		return
	}

	category, err := h.categories.Create(r.Context(), req, image)
	if err != nil {
		serviceError(w, err, "Ошибка создания категории")
		return
	}

	helpers.JSON(w, http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Обновить категорию (только admin)
// @Tags admin-categories
// @Security ApiKeyAuth
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID категории"
// @Param input body models.UpdateCategoryRequest true "Изменяемые поля"
// @Success 200 {object} models.Category
// @Router /api/admin/categories/{id} [patch]
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.UpdateCategoryRequest
	if err := decodePayload(r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный payload")
		return
	}

	image, err := formUpload(r, "image")
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Ошибка чтения файла")
		return
	}

	category, err := h.categories.Update(r.Context(), id, req, image)
	if err != nil {
		serviceError(w, err, "Ошибка обновления категории")
		return
	}

	helpers.JSON(w, http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Удалить категорию (только admin)
// @Tags admin-categories
// @Security ApiKeyAuth
// @Param id path string true "ID категории"
// @Success 200 {string} string "Удалено"
// @Router /api/admin/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger.WithCtx(r.Context()).Info("Запрос на удаление категории", zap.String("category_id", id))

	if err := h.categories.Delete(r.Context(), id); err != nil {
		serviceError(w, err, "Ошибка удаления категории")
		return
	}

	helpers.JSON(w, http.StatusOK, "Удалено")
}

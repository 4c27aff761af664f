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

type ArticleHandler struct {
	articles services.ArticleService
	comments services.CommentService
	profiles repository.ProfileRepo
}

func NewArticleHandler(articles services.ArticleService, comments services.CommentService, profiles repository.ProfileRepo) *ArticleHandler {
	return &ArticleHandler{articles: articles, comments: comments, profiles: profiles}
}

// ListArticles godoc
// @Summary Список статей
// @Tags articles
// @Produce json
// @Param author query string false "ID автора"
// @Param category query string false "Категория"
// @Param featured query bool false "Только избранные"
// @Param published query bool false "Только опубликованные"
// @Param limit query int false "Максимум записей"
// @Success 200 {array} models.Article
// @Router /articles [get]
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	q := services.ArticleQuery{
		AuthorID: r.URL.Query().Get("author"),
		Category: r.URL.Query().Get("category"),
	}
	q.FeaturedOnly, _ = strconv.ParseBool(r.URL.Query().Get("featured"))
	q.PublishedOnly, _ = strconv.ParseBool(r.URL.Query().Get("published"))
	q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	articles, err := h.articles.List(r.Context(), q)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения статей", zap.Error(err))
		serviceError(w, err, "Ошибка получения статей")
		return
	}

	helpers.JSON(w, http.StatusOK, articles)
}

// GetArticle godoc
// @Summary Получить статью по ID
// @Tags articles
// @Produce json
// @Param id path string true "ID статьи"
// @Success 200 {object} models.Article
// @Failure 404 {string} string "Не найдено"
// @Router /articles/{id} [get]
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	article, err := h.articles.GetByID(r.Context(), id)
	if err != nil {
		serviceError(w, err, "Ошибка получения статьи")
		return
	}

	helpers.JSON(w, http.StatusOK, article)
}

// GetArticleBySlug godoc
// @Summary Получить статью по slug
// @Tags articles
// @Produce json
// @Param slug path string true "Slug статьи"
// @Success 200 {object} models.Article
// @Failure 404 {string} string "Не найдено"
// @Router /articles/slug/{slug} [get]
func (h *ArticleHandler) GetArticleBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	article, err := h.articles.GetBySlug(r.Context(), slug)
	if err != nil {
		serviceError(w, err, "Ошибка получения статьи")
		return
	}

	helpers.JSON(w, http.StatusOK, article)
}

// ListArticleComments godoc
// @Summary Комментарии к статье
// @Tags articles
// @Produce json
// @Param id path string true "ID статьи"
// @Success 200 {array} models.Comment
// @Router /articles/{id}/comments [get]
func (h *ArticleHandler) ListArticleComments(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	comments, err := h.comments.ListByArticle(r.Context(), id, limit)
	if err != nil {
		serviceError(w, err, "Ошибка получения комментариев")
		return
	}

	helpers.JSON(w, http.StatusOK, comments)
}

// CreateArticle godoc
// @Summary Создать статью (admin или editor)
// @Tags admin-articles
// @Security ApiKeyAuth
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param input body models.CreateArticleRequest true "Данные статьи"
// @Success 201 {object} models.Article
// @Failure 400 {string} string "Ошибка запроса"
// @Router /api/admin/articles [post]
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	logger.WithCtx(r.Context()).Info("Запрос на создание статьи")

	var req models.CreateArticleRequest
	if err := decodePayload(r, &req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный payload при создании статьи", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный payload")
		return
	}

	image, err := formUpload(r, "image")
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Ошибка чтения файла")
		return
	}

	authorID, _ := reqctx.GetUserID(r.Context())
	authorName := displayName(r, h.profiles, authorID)

	article, err := h.articles.Create(r.Context(), authorID, authorName, req, image)
	if err != nil {
		serviceError(w, err, "Ошибка создания статьи")
		return
	}

	helpers.JSON(w, http.StatusCreated, article)
}

// UpdateArticle godoc
// @Summary Обновить статью (admin или editor)
// @Tags admin-articles
// @Security ApiKeyAuth
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID статьи"
// @Param input body models.UpdateArticleRequest true "Изменяемые поля"
// @Success 200 {object} models.Article
// @Router /api/admin/articles/{id} [patch]
func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger.WithCtx(r.Context()).Info("Запрос на обновление статьи", zap.String("article_id", id))

	var req models.UpdateArticleRequest
	if err := decodePayload(r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный payload")
		return
	}

	image, err := formUpload(r, "image")
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Ошибка чтения файла")
		return
	}

	article, err := h.articles.Update(r.Context(), id, req, image)
	if err != nil {
		serviceError(w, err, "Ошибка обновления статьи")
		return
	}

	helpers.JSON(w, http.StatusOK, article)
}

// PublishArticle godoc
// @Summary Опубликовать или снять с публикации (admin или editor)
// @Tags admin-articles
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID статьи"
// @Param publish query bool true "true — опубликовать"
// @Success 200 {object} models.Article
// @Router /api/admin/articles/{id}/publish [post]
func (h *ArticleHandler) PublishArticle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	publish, _ := strconv.ParseBool(r.URL.Query().Get("publish"))

	article, err := h.articles.SetPublish(r.Context(), id, publish)
	if err != nil {
		serviceError(w, err, "Ошибка публикации статьи")
		return
	}

	logger.WithCtx(r.Context()).Info("Статус публикации изменён",
		zap.String("article_id", id), zap.Bool("published", publish))
	helpers.JSON(w, http.StatusOK, article)
}

// DeleteArticle godoc
// @Summary Удалить статью (admin или editor)
// @Tags admin-articles
// @Security ApiKeyAuth
// @Param id path string true "ID статьи"
// @Success 200 {string} string "Удалено"
// @Router /api/admin/articles/{id} [delete]
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logger.WithCtx(r.Context()).Info("Запрос на удаление статьи", zap.String("article_id", id))

	if err := h.articles.Delete(r.Context(), id); err != nil {
		serviceError(w, err, "Ошибка удаления статьи")
		return
	}

	helpers.JSON(w, http.StatusOK, "Удалено")
}

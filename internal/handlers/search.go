package handlers

import (
	"net/http"
	"strings"
	"time"

	"edunewshub/internal/logger"
	"edunewshub/internal/services"
	"edunewshub/internal/utils/helpers"

	"go.uber.org/zap"
)

type SearchHandler struct {
	articles  services.ArticleService
	resources services.ResourceService
}

func NewSearchHandler(articles services.ArticleService, resources services.ResourceService) *SearchHandler {
	return &SearchHandler{articles: articles, resources: resources}
}

// GlobalSearch godoc
// @Summary Глобальный поиск по статьям и ресурсам
// @Tags search
// @Produce json
// @Param query query string true "Поисковый запрос"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {string} string "Пустой запрос"
// @Router /search [get]
func (h *SearchHandler) GlobalSearch(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		log.Warn("search: пустой запрос")
		helpers.Error(w, http.StatusBadRequest, "Пустой запрос")
		return
	}

	start := time.Now()
	log.Info("search: старт", zap.String("query", query))

	articleResults, errArticles := h.articles.Search(r.Context(), query)
	if errArticles != nil {
		log.Error("search: ошибка поиска по статьям", zap.Error(errArticles))
	}

	resourceResults, errResources := h.resources.Search(r.Context(), query)
	if errResources != nil {
		log.Error("search: ошибка поиска по ресурсам", zap.Error(errResources))
	}

	log.Info("search: готово",
		zap.String("query", query),
		zap.Int("articles_count", len(articleResults)),
		zap.Int("resources_count", len(resourceResults)),
		zap.Duration("elapsed", time.Since(start)),
	)

	results := map[string]interface{}{
		"articles":  articleResults,
		"resources": resourceResults,
	}

	helpers.JSON(w, http.StatusOK, results)
}

package handlers

import (
	"net/http"
	"strconv"

	"edunewshub/internal/logger"
	"edunewshub/internal/services"
	"edunewshub/internal/utils/helpers"

	"go.uber.org/zap"
)

type ActivityHandler struct {
	activity services.ActivityService
}

func NewActivityHandler(activity services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// RecentActivity godoc
// @Summary Лента последней активности (только admin)
// @Tags admin-activity
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Максимум записей"
// @Success 200 {array} models.ActivityItem
// @Router /api/admin/activity [get]
func (h *ActivityHandler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.activity.Recent(r.Context(), limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка сборки ленты активности", zap.Error(err))
		serviceError(w, err, "Ошибка сборки ленты активности")
		return
	}

	helpers.JSON(w, http.StatusOK, items)
}

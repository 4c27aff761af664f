package handlers

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"edunewshub/internal/utils/helpers"
)

// AdminLogsHandler — просмотр JSON-логов приложения из каталога lumberjack.
// Понимает ротации app-<timestamp>.log[.gz] и текущий app.log.
type AdminLogsHandler struct {
	LogDir string
}

func NewAdminLogsHandler(logDir string) *AdminLogsHandler {
	if logDir == "" {
		logDir = "logs"
	}
	return &AdminLogsHandler{LogDir: logDir}
}

var reLogFile = regexp.MustCompile(`^app(-.*)?\.log(\.gz)?$`)

// ListLogFiles godoc
// @Summary Доступные файлы логов (только admin)
// @Tags admin-logs
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} string
// @Router /api/admin/logs/files [get]
func (h *AdminLogsHandler) ListLogFiles(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(h.LogDir)
	if err != nil {
		helpers.JSON(w, http.StatusOK, []string{})
		return
	}

	files := []string{}
	for _, e := range entries {
		if !e.IsDir() && reLogFile.MatchString(e.Name()) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	helpers.JSON(w, http.StatusOK, files)
}

// GetLogs godoc
// @Summary Логи из файла с фильтрацией (только admin)
// @Tags admin-logs
// @Security ApiKeyAuth
// @Produce json
// @Param file query string false "Имя файла (по умолчанию app.log)"
// @Param level query string false "Уровень: debug,info,warn,error"
// @Param q query string false "Поиск по подстроке"
// @Param limit query int false "Лимит (по умолчанию 200, макс. 1000)"
// @Success 200 {array} object
// @Failure 404 {string} string "Файл не найден"
// @Router /api/admin/logs [get]
func (h *AdminLogsHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("file")
	if name == "" {
		name = "app.log"
	}
	if !reLogFile.MatchString(name) {
		helpers.Error(w, http.StatusBadRequest, "Недопустимое имя файла")
		return
	}

	level := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("level")))
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 200
	}
	if limit > 1000 {
		limit = 1000
	}

	f, err := os.Open(filepath.Join(h.LogDir, name))
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "Файл не найден")
		return
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			helpers.Error(w, http.StatusInternalServerError, "Ошибка чтения архива")
			return
		}
		defer gz.Close()
		reader = gz
	}

	items := []json.RawMessage{}
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if q != "" && !strings.Contains(strings.ToLower(string(raw)), q) {
			continue
		}

		var obj map[string]interface{}
		if err := json.Unmarshal(raw, &obj); err != nil {
			// консольные строки не в JSON пропускаем
			continue
		}
		if level != "" {
			lv, _ := obj["level"].(string)
			if !strings.EqualFold(lv, level) {
				continue
			}
		}

		items = append(items, json.RawMessage(append([]byte(nil), raw...)))
		if len(items) >= limit {
			break
		}
	}

	helpers.JSON(w, http.StatusOK, items)
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"edunewshub/internal/apperrors"
	"edunewshub/internal/filestore"
	"edunewshub/internal/repository"
	"edunewshub/internal/utils/helpers"
)

const maxUploadSize = 10 << 20 // 10MB

// serviceError переводит ошибки доменного слоя в HTTP-статусы.
func serviceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		helpers.Error(w, http.StatusNotFound, "Не найдено")
	case errors.Is(err, apperrors.ErrValidation):
		helpers.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrAlreadyExists), errors.Is(err, apperrors.ErrAlreadySubscribed):
		helpers.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		helpers.Error(w, http.StatusForbidden, "Доступ запрещён")
	case errors.Is(err, apperrors.ErrAuthentication):
		helpers.Error(w, http.StatusUnauthorized, "Неверный email или пароль")
	case errors.Is(err, apperrors.ErrRegistration):
		helpers.Error(w, http.StatusBadRequest, err.Error())
	default:
		helpers.Error(w, http.StatusInternalServerError, fallback)
	}
}

// decodePayload читает тело запроса в dst. Принимается либо чистый JSON,
// либо multipart-форма с JSON в поле payload (когда вместе с ним идёт файл).
func decodePayload(r *http.Request, dst interface{}) error {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return err
		}
		raw := r.FormValue("payload")
		if raw == "" {
			return errors.New("поле payload отсутствует")
		}
		return json.Unmarshal([]byte(raw), dst)
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

// displayName — имя автора по профилю; пустая строка, если профиля нет.
func displayName(r *http.Request, profiles repository.ProfileRepo, userID string) string {
	if userID == "" {
		return ""
	}
	p, err := profiles.GetByID(r.Context(), userID)
	if err != nil {
		return ""
	}
	return p.Name
}

// formUpload достаёт файл из multipart-формы; nil без ошибки, если файла нет
// или запрос не multipart.
func formUpload(r *http.Request, field string) (*filestore.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return nil, err
	}
	return &filestore.Upload{Filename: header.Filename, Data: data}, nil
}

// Package filestore — локальное файловое хранилище для картинок и файлов.
// Файлы раздаются статикой под /uploads/, публичная ссылка строится от SITEURL.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"edunewshub/internal/apperrors"
)

// Upload — бинарное вложение к create/update (картинка статьи, файл ресурса).
type Upload struct {
	Filename string
	Data     []byte
}

type FileStore struct {
	baseDir string
	siteURL string
}

func New(baseDir, siteURL string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		siteURL: strings.TrimRight(siteURL, "/"),
	}
}

// Save кладёт файл в <baseDir>/<subdir>/<unix-ms>_<имя> и возвращает
// публичный URL. Метка времени в имени исключает перезапись при совпадении имён.
func (f *FileStore) Save(subdir string, up *Upload) (string, error) {
	dir := filepath.Join(f.baseDir, subdir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", apperrors.Backend("mkdir "+dir, err)
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sanitizeName(up.Filename))
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, up.Data, 0o644); err != nil {
		return "", apperrors.Backend("write "+path, err)
	}

	return fmt.Sprintf("%s/%s/%s/%s", f.siteURL, filepath.Base(f.baseDir), subdir, name), nil
}

func (f *FileStore) BaseDir() string { return f.baseDir }

// sanitizeName выбрасывает из имени файла разделители путей.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." {
		name = "file"
	}
	return name
}

// Package files отвечает за хранение загружаемых файлов изданий:
// обложки и PDF сохраняются на диск под уникальными именами.
package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/jornal-destaque/internal/config"
)

// Kind тип загружаемого файла
type Kind string

const (
	KindCover Kind = "cover"
	KindPDF   Kind = "pdf"
)

var (
	// ErrFileTooLarge файл превышает допустимый размер
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUnsupportedType недопустимый content-type файла
	ErrUnsupportedType = errors.New("unsupported file type")
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// Store сохраняет файлы в подкаталогах covers/ и pdfs/ внутри базовой директории
type Store struct {
	dir     string
	maxSize int64
	baseURL string
}

// New создаёт хранилище и подготавливает директории
func New(cfg config.Uploads) (*Store, error) {
	const op = "files.New"
	for _, sub := range []string{"covers", "pdfs"} {
		if err := os.MkdirAll(filepath.Join(cfg.UploadDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return &Store{
		dir:     cfg.UploadDir,
		maxSize: cfg.MaxFileSize,
		baseURL: strings.TrimRight(cfg.FilesBaseURL, "/"),
	}, nil
}

// Dir возвращает базовую директорию хранилища
func (s *Store) Dir() string {
	return s.dir
}

// Save валидирует и записывает файл, возвращает относительный путь вида
// "covers/<uuid>.png" или "pdfs/<uuid>.pdf"
func (s *Store) Save(r io.Reader, originalName, contentType string, size int64, kind Kind) (string, error) {
	const op = "files.Save"

	if size > s.maxSize {
		return "", fmt.Errorf("%s: %w", op, ErrFileTooLarge)
	}

	var subfolder string
	switch kind {
	case KindCover:
		if _, ok := allowedImageTypes[contentType]; !ok {
			return "", fmt.Errorf("%s: %w", op, ErrUnsupportedType)
		}
		subfolder = "covers"
	case KindPDF:
		if contentType != "application/pdf" {
			return "", fmt.Errorf("%s: %w", op, ErrUnsupportedType)
		}
		subfolder = "pdfs"
	default:
		return "", fmt.Errorf("%s: unknown file kind %q", op, kind)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	fullPath := filepath.Join(s.dir, subfolder, name)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = dst.Close() }()

	// Лимит проверяем и при копировании: заявленный размер может врать.
	written, err := io.Copy(dst, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if written > s.maxSize {
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("%s: %w", op, ErrFileTooLarge)
	}

	return subfolder + "/" + name, nil
}

// Delete удаляет файл по относительному пути, отсутствие файла не ошибка
func (s *Store) Delete(relPath string) error {
	const op = "files.Delete"
	if relPath == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(relPath)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// URL строит полный адрес файла для клиента
func (s *Store) URL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return s.baseURL + "/files/" + strings.ReplaceAll(relPath, "\\", "/")
}

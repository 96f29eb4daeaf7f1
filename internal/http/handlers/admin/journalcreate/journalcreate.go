// Package journalcreate реализует HTTP-обработчик публикации издания.
//
// Запрос приходит в multipart/form-data: метаданные, PDF с содержимым
// и необязательная обложка.
package journalcreate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jornal-destaque/internal/files"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/response"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
)

// Service описывает интерфейс каталога изданий.
type Service interface {
	Create(ctx context.Context, journal models.Journal) (*models.Journal, error)
}

// FileStore сохраняет и удаляет файлы изданий.
type FileStore interface {
	Save(r io.Reader, originalName, contentType string, size int64, kind files.Kind) (string, error)
	Delete(relPath string) error
	URL(relPath string) string
}

// Handler обрабатывает запросы на публикацию издания.
type Handler struct {
	log     *slog.Logger
	service Service
	files   FileStore
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, files FileStore) *Handler {
	return &Handler{
		log:     log,
		service: service,
		files:   files,
	}
}

// ServeHTTP godoc
// @Summary Публикация издания
// @Description Создает издание с PDF и необязательной обложкой
// @Tags Admin
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param title formData string true "Название издания"
// @Param published_at formData string false "Дата публикации (YYYY-MM-DD), по умолчанию сегодня"
// @Param pdf formData file true "PDF с содержимым"
// @Param cover formData file false "Обложка"
// @Success 201 {object} response.OKResponse "Издание создано"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные или файл"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 413 {object} response.ErrorResponse "Файл слишком большой"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/journals [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.journalcreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	title := r.FormValue("title")
	if title == "" {
		log.Error("title is missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("field title is a required field"))
		return
	}

	publishedAt := time.Now().UTC()
	if raw := r.FormValue("published_at"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			log.Error("invalid published_at", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("field published_at must be a date in format 2006-01-02"))
			return
		}
		publishedAt = parsed
	}

	pdfPath, ok := h.saveFormFile(w, r, log, "pdf", files.KindPDF, true)
	if !ok {
		return
	}

	coverPath, ok := h.saveFormFile(w, r, log, "cover", files.KindCover, false)
	if !ok {
		_ = h.files.Delete(pdfPath)
		return
	}

	journal := models.Journal{
		Title:       title,
		PDFPath:     pdfPath,
		PublishedAt: publishedAt,
		IsActive:    true,
	}
	if coverPath != "" {
		journal.CoverPath = &coverPath
	}

	created, err := h.service.Create(r.Context(), journal)
	if err != nil {
		log.Error("failed to create journal", sl.Err(err))
		_ = h.files.Delete(pdfPath)
		_ = h.files.Delete(coverPath)
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create journal"))
		return
	}

	log.Info("journal created", slog.Int64("id", created.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"journal": created,
	}))
}

// saveFormFile сохраняет файл из multipart-формы. Возвращает относительный
// путь и признак успеха; при ошибке ответ уже записан.
func (h *Handler) saveFormFile(w http.ResponseWriter, r *http.Request, log *slog.Logger, field string, kind files.Kind, required bool) (string, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) && !required {
			return "", true
		}
		log.Error("failed to read form file", slog.String("field", field), sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("field "+field+" is a required file"))
		return "", false
	}
	defer func() { _ = file.Close() }()

	relPath, err := h.files.Save(file, header.Filename, header.Header.Get("Content-Type"), header.Size, kind)
	if err != nil {
		log.Error("failed to save file", slog.String("field", field), sl.Err(err))
		switch {
		case errors.Is(err, files.ErrFileTooLarge):
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			render.JSON(w, r, response.Error("file is too large"))
		case errors.Is(err, files.ErrUnsupportedType):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unsupported file type"))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not save file"))
		}
		return "", false
	}
	return relPath, true
}

// Package journalupdate реализует HTTP-обработчик изменения издания.
//
// Запрос приходит в multipart/form-data: любые поля можно опустить,
// новые файлы заменяют старые, прежние удаляются с диска.
package journalupdate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jornal-destaque/internal/files"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/response"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

// Service описывает интерфейс каталога изданий.
type Service interface {
	Get(ctx context.Context, id int64, activeOnly bool) (*models.Journal, error)
	Update(ctx context.Context, id int64, upd repository.JournalUpdate) (*models.Journal, error)
}

// FileStore сохраняет и удаляет файлы изданий.
type FileStore interface {
	Save(r io.Reader, originalName, contentType string, size int64, kind files.Kind) (string, error)
	Delete(relPath string) error
}

// Handler обрабатывает запросы на изменение издания.
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
// @Summary Изменение издания
// @Description Обновляет метаданные издания, новые файлы заменяют старые
// @Tags Admin
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID издания"
// @Param title formData string false "Название издания"
// @Param published_at formData string false "Дата публикации (YYYY-MM-DD)"
// @Param is_active formData bool false "Признак публикации"
// @Param pdf formData file false "Новый PDF с содержимым"
// @Param cover formData file false "Новая обложка"
// @Success 200 {object} response.OKResponse "Издание обновлено"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные или файл"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 404 {object} response.ErrorResponse "Издание не найдено"
// @Failure 413 {object} response.ErrorResponse "Файл слишком большой"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/journals/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.journalupdate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid journal id"))
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	current, err := h.service.Get(r.Context(), id, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("journal not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("journal not found"))
			return
		}
		log.Error("failed to get journal", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update journal"))
		return
	}

	var upd repository.JournalUpdate
	if title := r.FormValue("title"); title != "" {
		upd.Title = &title
	}
	if raw := r.FormValue("published_at"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			log.Error("invalid published_at", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("field published_at must be a date in format 2006-01-02"))
			return
		}
		upd.PublishedAt = &parsed
	}
	if raw := r.FormValue("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			log.Error("invalid is_active", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("field is_active must be a boolean"))
			return
		}
		upd.IsActive = &active
	}

	pdfPath, ok := h.saveFormFile(w, r, log, "pdf", files.KindPDF)
	if !ok {
		return
	}
	if pdfPath != "" {
		upd.PDFPath = &pdfPath
	}

	coverPath, ok := h.saveFormFile(w, r, log, "cover", files.KindCover)
	if !ok {
		if pdfPath != "" {
			_ = h.files.Delete(pdfPath)
		}
		return
	}
	if coverPath != "" {
		upd.CoverPath = &coverPath
	}

	updated, err := h.service.Update(r.Context(), id, upd)
	if err != nil {
		if pdfPath != "" {
			_ = h.files.Delete(pdfPath)
		}
		if coverPath != "" {
			_ = h.files.Delete(coverPath)
		}
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("journal not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("journal not found"))
			return
		}
		log.Error("failed to update journal", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update journal"))
		return
	}

	// Старые файлы убираем только после успешного обновления записи.
	if pdfPath != "" {
		_ = h.files.Delete(current.PDFPath)
	}
	if coverPath != "" && current.CoverPath != nil {
		_ = h.files.Delete(*current.CoverPath)
	}

	log.Info("journal updated", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"journal": updated,
	}))
}

// saveFormFile сохраняет необязательный файл из multipart-формы.
// Возвращает относительный путь (пустой, если файла нет) и признак
// успеха; при ошибке ответ уже записан.
func (h *Handler) saveFormFile(w http.ResponseWriter, r *http.Request, log *slog.Logger, field string, kind files.Kind) (string, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", true
		}
		log.Error("failed to read form file", slog.String("field", field), sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("could not read file "+field))
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

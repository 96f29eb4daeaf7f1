// Package journalremove реализует HTTP-обработчик снятия издания с публикации.
// Запись остаётся в базе, файлы удаляются с диска.
package journalremove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jornal-destaque/internal/http/response"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

// Service описывает интерфейс каталога изданий.
type Service interface {
	Get(ctx context.Context, id int64, activeOnly bool) (*models.Journal, error)
	Deactivate(ctx context.Context, id int64) error
}

// FileStore удаляет файлы изданий.
type FileStore interface {
	Delete(relPath string) error
}

// Handler обрабатывает запросы на снятие издания с публикации.
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
// @Summary Снятие издания с публикации
// @Description Скрывает издание из каталога и удаляет его файлы
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID издания"
// @Success 200 {object} response.OKResponse "Издание скрыто"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 404 {object} response.ErrorResponse "Издание не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/journals/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.journalremove"

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

	journal, err := h.service.Get(r.Context(), id, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("journal not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("journal not found"))
			return
		}
		log.Error("failed to get journal", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove journal"))
		return
	}

	if err := h.service.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("journal not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("journal not found"))
			return
		}
		log.Error("failed to deactivate journal", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove journal"))
		return
	}

	if err := h.files.Delete(journal.PDFPath); err != nil {
		log.Warn("failed to delete pdf file", sl.Err(err))
	}
	if journal.CoverPath != nil {
		if err := h.files.Delete(*journal.CoverPath); err != nil {
			log.Warn("failed to delete cover file", sl.Err(err))
		}
	}

	log.Info("journal removed from catalog", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "journal removed",
	}))
}

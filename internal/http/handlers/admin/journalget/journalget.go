// Package journalget реализует HTTP-обработчик карточки издания для
// администратора. Скрытые издания тоже возвращаются.
package journalget

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

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
}

// FileURL строит полный адрес файла для клиента.
type FileURL interface {
	URL(relPath string) string
}

// Handler обрабатывает административные запросы карточки издания.
type Handler struct {
	log     *slog.Logger
	service Service
	files   FileURL
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, files FileURL) *Handler {
	return &Handler{
		log:     log,
		service: service,
		files:   files,
	}
}

// ServeHTTP godoc
// @Summary Карточка издания
// @Description Возвращает издание по ID, включая скрытые
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID издания"
// @Success 200 {object} response.OKResponse "Издание"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 404 {object} response.ErrorResponse "Издание не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/journals/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.journalget"

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
		render.JSON(w, r, response.Error("could not get journal"))
		return
	}

	data := map[string]any{
		"id":           journal.ID,
		"title":        journal.Title,
		"published_at": journal.PublishedAt.Format(time.RFC3339),
		"is_active":    journal.IsActive,
		"pdf_url":      h.files.URL(journal.PDFPath),
	}
	if journal.CoverPath != nil {
		data["cover_url"] = h.files.URL(*journal.CoverPath)
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"journal": data,
	}))
}

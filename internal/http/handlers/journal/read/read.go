// Package read реализует HTTP-обработчик чтения издания.
//
// Ссылка на PDF выдаётся только при активной подписке либо если издание
// опубликовано сегодня.
package read

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

	"github.com/magabrotheeeer/jornal-destaque/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/response"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
	"github.com/magabrotheeeer/jornal-destaque/internal/services/journal"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

// Service описывает интерфейс чтения издания с проверкой доступа.
type Service interface {
	Read(ctx context.Context, userID, id int64) (*models.Journal, error)
}

// FileURL строит полный адрес файла для клиента.
type FileURL interface {
	URL(relPath string) string
}

// Handler обрабатывает запросы на чтение издания.
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
// @Summary Чтение издания
// @Description Возвращает издание со ссылкой на PDF при наличии доступа
// @Tags Journals
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID издания"
// @Success 200 {object} response.OKResponse "Издание с содержимым"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет доступа к содержимому"
// @Failure 404 {object} response.ErrorResponse "Издание не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /journals/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.journal.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid or expired token"))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid journal id"))
		return
	}

	res, err := h.service.Read(r.Context(), user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("journal not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("journal not found"))
		case errors.Is(err, journal.ErrAccessDenied):
			log.Error("access denied", slog.Int64("id", id), slog.Int64("user_id", user.ID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("active subscription required"))
		default:
			log.Error("failed to read journal", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read journal"))
		}
		return
	}

	log.Info("journal read", slog.Int64("id", id), slog.Int64("user_id", user.ID))

	data := map[string]any{
		"id":           res.ID,
		"title":        res.Title,
		"published_at": res.PublishedAt.Format(time.RFC3339),
		"pdf_url":      h.files.URL(res.PDFPath),
	}
	if res.CoverPath != nil {
		data["cover_url"] = h.files.URL(*res.CoverPath)
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"journal": data,
	}))
}

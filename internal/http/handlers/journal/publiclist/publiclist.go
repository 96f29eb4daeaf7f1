// Package publiclist реализует публичный список изданий без авторизации.
package publiclist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/journal/list"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/response"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

// Service описывает интерфейс каталога изданий.
type Service interface {
	List(ctx context.Context, filter repository.JournalFilter) ([]*models.Journal, error)
}

// Handler обрабатывает публичные запросы каталога.
type Handler struct {
	log     *slog.Logger
	service Service
	files   list.FileURL
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, files list.FileURL) *Handler {
	return &Handler{
		log:     log,
		service: service,
		files:   files,
	}
}

// ServeHTTP godoc
// @Summary Публичный каталог изданий
// @Description Витрина активных изданий, доступна без авторизации
// @Tags Public
// @Produce  json
// @Param busca query string false "Поиск по названию"
// @Param data_inicio query string false "Дата публикации с (YYYY-MM-DD)"
// @Param data_fim query string false "Дата публикации по (YYYY-MM-DD)"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.OKResponse "Список изданий"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /public/journals [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.journal.publiclist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	journals, err := h.service.List(r.Context(), list.ParseFilter(r, true))
	if err != nil {
		log.Error("failed to list journals", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list journals"))
		return
	}

	views := make([]list.View, 0, len(journals))
	for _, journal := range journals {
		views = append(views, list.NewView(journal, h.files))
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"journals": views,
	}))
}

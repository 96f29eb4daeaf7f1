// Package journallist реализует HTTP-обработчик списка изданий для администратора.
// В отличие от читательского каталога показываются и скрытые издания.
package journallist

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

// Handler обрабатывает административные запросы списка изданий.
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
// @Summary Список изданий для администратора
// @Description Возвращает издания вместе со скрытыми
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param busca query string false "Поиск по названию"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.OKResponse "Список изданий"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/journals [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.journallist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	journals, err := h.service.List(r.Context(), list.ParseFilter(r, false))
	if err != nil {
		log.Error("failed to list journals", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list journals"))
		return
	}

	type adminView struct {
		list.View
		PDFURL   string `json:"pdf_url"`
		IsActive bool   `json:"is_active"`
	}

	views := make([]adminView, 0, len(journals))
	for _, journal := range journals {
		views = append(views, adminView{
			View:     list.NewView(journal, h.files),
			PDFURL:   h.files.URL(journal.PDFPath),
			IsActive: journal.IsActive,
		})
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"journals": views,
	}))
}

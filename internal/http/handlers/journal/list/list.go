// Package list реализует HTTP-обработчик списка изданий для читателей.
//
// Возвращаются только активные издания: метаданные и ссылка на обложку,
// без ссылки на содержимое.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jornal-destaque/internal/http/response"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

// Service описывает интерфейс каталога изданий.
type Service interface {
	List(ctx context.Context, filter repository.JournalFilter) ([]*models.Journal, error)
}

// FileURL строит полный адрес файла для клиента.
type FileURL interface {
	URL(relPath string) string
}

// Handler обрабатывает запросы на список изданий.
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

// ParseFilter разбирает параметры запроса в фильтр каталога.
// Некорректные значения дат отбрасываются.
func ParseFilter(r *http.Request, activeOnly bool) repository.JournalFilter {
	filter := repository.JournalFilter{
		ActiveOnly: activeOnly,
		Limit:      20,
	}
	q := r.URL.Query()

	if search := q.Get("busca"); search != "" {
		filter.TitleSearch = &search
	}
	if raw := q.Get("data_inicio"); raw != "" {
		if ts, err := time.Parse("2006-01-02", raw); err == nil {
			filter.From = &ts
		}
	}
	if raw := q.Get("data_fim"); raw != "" {
		if ts, err := time.Parse("2006-01-02", raw); err == nil {
			filter.To = &ts
		}
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}
	return filter
}

// View описывает издание в ответе каталога.
type View struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	CoverURL    string    `json:"cover_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// NewView собирает представление издания без ссылки на содержимое.
func NewView(journal *models.Journal, files FileURL) View {
	view := View{
		ID:          journal.ID,
		Title:       journal.Title,
		PublishedAt: journal.PublishedAt,
	}
	if journal.CoverPath != nil {
		view.CoverURL = files.URL(*journal.CoverPath)
	}
	return view
}

// ServeHTTP godoc
// @Summary Каталог изданий
// @Description Возвращает активные издания с фильтрами по названию и датам
// @Tags Journals
// @Produce  json
// @Security BearerAuth
// @Param busca query string false "Поиск по названию"
// @Param data_inicio query string false "Дата публикации с (YYYY-MM-DD)"
// @Param data_fim query string false "Дата публикации по (YYYY-MM-DD)"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.OKResponse "Список изданий"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /journals [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.journal.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	journals, err := h.service.List(r.Context(), ParseFilter(r, true))
	if err != nil {
		log.Error("failed to list journals", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list journals"))
		return
	}

	views := make([]View, 0, len(journals))
	for _, journal := range journals {
		views = append(views, NewView(journal, h.files))
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"journals": views,
	}))
}
